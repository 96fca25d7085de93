package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scm-platform/transport-service/internal/domain"
	"github.com/scm-platform/transport-service/pkg/kafka"
)

func TestTopicForEvent(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		want      string
	}{
		{"request created", domain.EventTypeRequestCreated, kafka.Topics.TransportEvents},
		{"status changed", domain.EventTypeStatusChanged, kafka.Topics.TransportEvents},
		{"request archived", domain.EventTypeRequestArchived, kafka.Topics.RequestArchive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, topicForEvent(tt.eventType))
		})
	}
}
