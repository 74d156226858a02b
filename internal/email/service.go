package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Result is the outcome of a synchronous send. Expected SMTP failures
// (bad address, auth rejection, unreachable host) come back as
// Success=false with a message, never as an error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// Send queues a best-effort email. Delivery happens on the worker
// goroutine started by Start.
func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

// SendNow delivers synchronously and reports the outcome as data. Bulk
// broadcast uses this so that per-recipient accounting reflects real
// delivery attempts rather than queue acceptance.
func (s *Service) SendNow(ctx context.Context, to, subject, body string) Result {
	if to == "" {
		return Result{Success: false, Message: "no recipient address"}
	}

	if err := s.deliver(EmailJob{To: to, Subject: subject, Body: body}); err != nil {
		metrics.RecordEmail("direct", "failed")
		return Result{Success: false, Message: err.Error()}
	}

	metrics.RecordEmail("direct", "sent")
	return Result{Success: true, Message: "sent"}
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending email to %s (attempt %d)", job.To, job.Tries)
	if err := s.deliver(job); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)
		metrics.RecordEmail("queued", "failed")

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxTries)
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordEmail("queued", "sent")
	logger.Infof("Email sent successfully to %s", job.To)
}

func (s *Service) deliver(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendCheckInConfirmation(ctx context.Context, to, name, gymName string, checkOut time.Time) error {
	subject := "Checked in"
	if gymName != "" {
		subject = "Checked in at " + gymName
	}
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>You are checked in. Your session runs until <b>%s</b>.</p>
<p>Have a good workout!</p>`, name, checkOut.Format("3:04 PM"))

	return s.Send(ctx, to, name, subject, body)
}

// StatusChangeNotice builds the subject and HTML body for a stored
// status change. Bulk runs compose with this directly so that queued
// and synchronous notices read the same.
func StatusChangeNotice(name, gymName, newStatus string) (subject, body string) {
	subject = "Your membership status has changed"
	body = fmt.Sprintf(`<p>Hi %s,</p>
<p>Your membership at %s is now <b>%s</b>.</p>
<p>Contact reception if you have questions.</p>`, name, gymName, newStatus)
	return subject, body
}

func (s *Service) SendStatusChangeNotice(ctx context.Context, to, name, gymName, newStatus string) error {
	subject, body := StatusChangeNotice(name, gymName, newStatus)
	return s.Send(ctx, to, name, subject, body)
}

func (s *Service) SendExpiryReminder(ctx context.Context, to, name, gymName string, expiry time.Time) error {
	subject := "Your membership is expiring soon"
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your membership at %s expires on <b>%s</b>. Renew at reception to keep training.</p>`,
		name, gymName, expiry.Format("Jan 2, 2006"))

	return s.Send(ctx, to, name, subject, body)
}
