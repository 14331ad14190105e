package ses

import (
	"context"
	"testing"

	"vet-hospital/internal/ports/notify"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	got *sesv2.SendEmailInput
}

func (f *fakeSES) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.got = in
	return &sesv2.SendEmailOutput{}, nil
}

func TestSend(t *testing.T) {
	fake := &fakeSES{}
	m := NewWithClient(fake, "noreply@vet.example")
	require.True(t, m.Enabled())

	err := m.Send(context.Background(), notify.Message{To: "donor@example.com", Subject: "Receipt", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	require.NotNil(t, fake.got)
	assert.Equal(t, "noreply@vet.example", aws.ToString(fake.got.FromEmailAddress))
	assert.Equal(t, []string{"donor@example.com"}, fake.got.Destination.ToAddresses)
	assert.Equal(t, "Receipt", aws.ToString(fake.got.Content.Simple.Subject.Data))
}

func TestDisabledWithoutSender(t *testing.T) {
	m := NewWithClient(&fakeSES{}, "")
	assert.False(t, m.Enabled())
	assert.Error(t, m.Send(context.Background(), notify.Message{To: "x@y.z"}))
}
