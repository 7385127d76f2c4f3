// internal/common/aws/aws_test.go
package aws

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	got *ses.SendEmailInput
	err error
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.got = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-1")}, nil
}

type mockSNS struct {
	got *sns.PublishInput
	err error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.got = params
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("sns-1")}, nil
}

func TestSESClient_SendText(t *testing.T) {
	api := &mockSES{}
	client := NewSESClientWithAPI(api, "advisor@example.com")

	id, err := client.SendText(context.Background(), "sales@example.com", "New lead", "body text")
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, []string{"sales@example.com"}, api.got.Destination.ToAddresses)
	assert.Equal(t, "advisor@example.com", awssdk.ToString(api.got.Source))
	assert.Equal(t, "New lead", awssdk.ToString(api.got.Message.Subject.Data))
	assert.Equal(t, "body text", awssdk.ToString(api.got.Message.Body.Text.Data))

	api.err = assert.AnError
	_, err = client.SendText(context.Background(), "sales@example.com", "s", "b")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSNSClient_SendSMS(t *testing.T) {
	tests := []struct {
		name       string
		senderID   string
		wantSender bool
	}{
		{"with sender id", "PUMPS", true},
		{"without sender id", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockSNS{}
			id, err := NewSNSClientWithAPI(api, tt.senderID).SendSMS(context.Background(), "+15555550100", "hello")
			require.NoError(t, err)
			assert.Equal(t, "sns-1", id)
			assert.Equal(t, "+15555550100", awssdk.ToString(api.got.PhoneNumber))
			assert.Equal(t, "Transactional", awssdk.ToString(api.got.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue))

			sender, ok := api.got.MessageAttributes["AWS.SNS.SMS.SenderID"]
			assert.Equal(t, tt.wantSender, ok)
			if ok {
				assert.Equal(t, tt.senderID, awssdk.ToString(sender.StringValue))
			}
		})
	}
}

func TestSNSClient_SendSMS_Error(t *testing.T) {
	_, err := NewSNSClientWithAPI(&mockSNS{err: assert.AnError}, "").SendSMS(context.Background(), "+1", "m")
	assert.ErrorIs(t, err, assert.AnError)
}
