package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thebluefish/eureka-notify/internal/config"
	"github.com/thebluefish/eureka-notify/internal/notify"
)

func TestBuildNotifiers(t *testing.T) {
	const url = "https://discord.example/api/webhooks/1/abc"

	tests := []struct {
		name       string
		cfg        config.Config
		notifiers  int
		poster     bool
		webhookOut bool
	}{
		{"log only", config.Config{}, 1, false, false},
		{"desktop", config.Config{DesktopNotify: true}, 2, false, false},
		{"webhook posts only", config.Config{WebhookURL: url}, 1, true, false},
		{"webhook alerts", config.Config{WebhookURL: url, WebhookAlerts: true}, 2, true, true},
		{"alerts without url", config.Config{WebhookAlerts: true}, 1, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifiers, poster := buildNotifiers(&tt.cfg, zap.NewNop())
			require.Len(t, notifiers, tt.notifiers)
			assert.IsType(t, &notify.Log{}, notifiers[0])

			if tt.poster {
				assert.IsType(t, &notify.Webhook{}, poster)
			} else {
				assert.Nil(t, poster)
			}

			hasWebhook := false
			for _, n := range notifiers {
				if _, ok := n.(*notify.Webhook); ok {
					hasWebhook = true
				}
			}
			assert.Equal(t, tt.webhookOut, hasWebhook)
		})
	}
}
