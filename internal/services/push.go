package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/maren/innerlog-api/internal/repository"
)

// PushService sends push notifications via Firebase Cloud Messaging.
type PushService struct {
	client *messaging.Client
	store  repository.Store
	log    zerolog.Logger
}

// NewPushService initializes FCM. A missing service account or a failed
// init yields a disabled service rather than an error (dev mode).
func NewPushService(store repository.Store, serviceAccountPath string, log zerolog.Logger) *PushService {
	svc := &PushService{store: store, log: log}

	if serviceAccountPath == "" {
		log.Info().Msg("fcm: no service account configured, push disabled")
		return svc
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Warn().Err(err).Msg("fcm: failed to initialize firebase app")
		return svc
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("fcm: failed to get messaging client")
		return svc
	}

	svc.client = client
	log.Info().Msg("fcm: push notifications enabled")
	return svc
}

// SendToUser sends a push notification to a user by their ID. No-op if push
// is not configured or the user has no device token.
func (p *PushService) SendToUser(userID uuid.UUID, title, body string, data map[string]string) {
	if p.client == nil {
		return
	}

	user, err := p.store.UserByID(userID)
	if err != nil || user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if data != nil {
		msg.Data = data
	}

	if _, err := p.client.Send(context.Background(), msg); err != nil {
		p.log.Warn().Err(err).Str("user", userID.String()).Msg("fcm: send failed")
	}
}
