package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var testMessage = models.ContactMessage{
	ID:       3,
	Nome:     "Ana <Dev>",
	Email:    "ana@example.com",
	Mensagem: "Olá!\nVamos conversar?",
}

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) NotifyContact(context.Context, models.ContactMessage) error {
	r.calls++
	return r.err
}

func TestNotifyEverywhere(t *testing.T) {
	t.Parallel()

	failing := &recordingNotifier{err: errors.New("quota exceeded")}
	working := &recordingNotifier{}
	n := NewNotifyEverywhere(Channel{Name: "email", Notifier: failing}, Channel{Name: "sms", Notifier: working})

	err := n.NotifyContact(context.Background(), testMessage)
	if err == nil || !strings.Contains(err.Error(), "email: quota exceeded") {
		t.Errorf("NotifyContact() error = %v", err)
	}
	if failing.calls != 1 || working.calls != 1 {
		t.Errorf("calls = %d/%d, want every channel attempted once", failing.calls, working.calls)
	}

	if err := NewNotifyEverywhere().NotifyContact(context.Background(), testMessage); err != nil {
		t.Errorf("NotifyContact() with no channels error = %v", err)
	}
}

func TestNewContactNotifier(t *testing.T) {
	t.Parallel()

	if got := NewContactNotifier(config.NotifyConfig{}).Channels(); got != 0 {
		t.Errorf("Channels() = %d, want 0", got)
	}

	full := config.NotifyConfig{
		ResendAPIKey: "re_key", ResendFromEmail: "site@example.com", NotifyEmail: "me@example.com",
		TwilioAccountSID: "AC123", TwilioAuthToken: "token", TwilioFromNumber: "+15550001", NotifyPhone: "+15550002",
	}
	if got := NewContactNotifier(full).Channels(); got != 2 {
		t.Errorf("Channels() = %d, want 2", got)
	}
}

func TestResendMailer(t *testing.T) {
	t.Parallel()

	var got ResendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	t.Cleanup(srv.Close)

	mailer := NewResendMailer(config.NotifyConfig{ResendAPIKey: "re_key", ResendFromEmail: "site@example.com", NotifyEmail: "me@example.com"})
	mailer.endpoint = srv.URL

	if err := mailer.NotifyContact(context.Background(), testMessage); err != nil {
		t.Fatalf("NotifyContact() error = %v", err)
	}
	if auth != "Bearer re_key" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.From != "site@example.com" || len(got.To) != 1 || got.To[0] != "me@example.com" {
		t.Errorf("from/to = %q/%q", got.From, got.To)
	}
	if got.ReplyTo != "ana@example.com" {
		t.Errorf("reply_to = %q", got.ReplyTo)
	}
	if strings.Contains(got.Html, "<Dev>") || !strings.Contains(got.Html, "&lt;Dev&gt;") {
		t.Errorf("html not escaped: %q", got.Html)
	}
}

func TestResendMailerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	t.Cleanup(srv.Close)

	mailer := NewResendMailer(config.NotifyConfig{ResendAPIKey: "k", ResendFromEmail: "x", NotifyEmail: "me@example.com"})
	mailer.endpoint = srv.URL

	err := mailer.NotifyContact(context.Background(), testMessage)
	if err == nil || !strings.Contains(err.Error(), "invalid from address") {
		t.Errorf("NotifyContact() error = %v", err)
	}
}

type fakeTwilio struct {
	params *twilioApi.CreateMessageParams
}

func (f *fakeTwilio) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioTexter(t *testing.T) {
	t.Parallel()

	fake := &fakeTwilio{}
	texter := &TwilioTexter{api: fake, from: "+15550001", to: "+15550002"}

	long := testMessage
	long.Mensagem = strings.Repeat("a", 1000)
	if err := texter.NotifyContact(context.Background(), long); err != nil {
		t.Fatalf("NotifyContact() error = %v", err)
	}
	if *fake.params.To != "+15550002" || *fake.params.From != "+15550001" {
		t.Errorf("to/from = %s/%s", *fake.params.To, *fake.params.From)
	}
	if n := len([]rune(*fake.params.Body)); n != maxSMSBody {
		t.Errorf("body length = %d, want %d", n, maxSMSBody)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := texter.SendSMS(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("SendSMS(canceled) error = %v", err)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3ImageStore(t *testing.T) {
	t.Parallel()

	store := NewS3ImageStore(aws.Config{Region: "sa-east-1"}, config.StorageConfig{S3Bucket: "portfolio-media"})
	fake := &fakeS3{}
	store.client = fake

	key := NewImageKey("Screen Shot.PNG")
	if !strings.HasPrefix(key, "projects/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("NewImageKey() = %q", key)
	}

	url, err := store.PutImage(context.Background(), key, "image/png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("PutImage() error = %v", err)
	}
	if want := "https://portfolio-media.s3.sa-east-1.amazonaws.com/" + key; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if aws.ToString(fake.input.Bucket) != "portfolio-media" || aws.ToString(fake.input.ContentType) != "image/png" {
		t.Errorf("input = %+v", fake.input)
	}
	if string(fake.body) != "png-bytes" {
		t.Errorf("body = %q", fake.body)
	}

	cdn := NewS3ImageStore(aws.Config{Region: "sa-east-1"}, config.StorageConfig{S3Bucket: "b", PublicBaseURL: "https://cdn.example.com/"})
	if got := cdn.URLFor("projects/a.png"); got != "https://cdn.example.com/projects/a.png" {
		t.Errorf("URLFor() = %q", got)
	}
}

type fakeSSM struct {
	value *string
	err   error
}

func (f fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !aws.ToBool(in.WithDecryption) {
		return nil, errors.New("decryption not requested")
	}
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Name: in.Name, Value: f.value}}, nil
}

func TestSecretStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	got, err := (&SecretStore{client: fakeSSM{value: aws.String("s3cr3t")}}).Get(ctx, "/portfolio/jwt")
	if err != nil || got != "s3cr3t" {
		t.Errorf("Get() = %q, %v", got, err)
	}

	if _, err := (&SecretStore{client: fakeSSM{value: aws.String("")}}).Get(ctx, "/portfolio/jwt"); err == nil {
		t.Error("Get() of empty parameter succeeded")
	}

	if _, err := (&SecretStore{client: fakeSSM{err: errors.New("access denied")}}).Get(ctx, "/portfolio/jwt"); err == nil {
		t.Error("Get() with failing client succeeded")
	}
}
