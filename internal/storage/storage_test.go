package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		file   string
		want   string
	}{
		{"talk", "data/output/talk_structured.json", "talk/talk_structured.json"},
		{"talk/keyframes", "/abs/keyframe_00-00-01-000_0001.jpg", "talk/keyframes/keyframe_00-00-01-000_0001.jpg"},
		{"", "a.docx", "a.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.prefix, tt.file))
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", ContentType("x_structured.json"))
	assert.Equal(t, "image/jpeg", ContentType("k.jpg"))
	assert.Equal(t, "image/png", ContentType("k.png"))
	assert.Contains(t, ContentType("slides.docx"), "wordprocessingml")
	assert.Equal(t, "application/octet-stream", ContentType("blob.unknownext"))
}

func TestNew(t *testing.T) {
	_, err := New(Config{Endpoint: "localhost:9000"})
	assert.Error(t, err)

	p, err := New(Config{Endpoint: "localhost:9000", Bucket: "slides", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.NotNil(t, p)
}
