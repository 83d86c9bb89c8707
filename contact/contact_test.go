package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/backend/memory"
	"github.com/rpupo63/portfolio-site/models"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newForm(client *memory.Client, opts ...Option) *Form {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewForm(client, opts...)
}

func storedMessages(t *testing.T, client *memory.Client) []models.ContactMessage {
	t.Helper()
	var out []models.ContactMessage
	require.NoError(t, client.Select(context.Background(), backend.TableContactMessages, backend.Query{}, &out))
	return out
}

func TestSubmitStoresMessage(t *testing.T) {
	client := memory.New()
	res := newForm(client).Submit(context.Background(), Fields{
		Name:    "  Ana ",
		Email:   "ana@example.com",
		Subject: models.SubjectPatternGrading,
		Message: "Need a size run graded.",
	})

	require.True(t, res.Succeeded())
	assert.Empty(t, res.FieldErrors)
	assert.Empty(t, res.Error)
	assert.Equal(t, Fields{}, res.Fields)
	assert.Equal(t, fixedNow.Add(5*time.Second), res.SuccessUntil)

	stored := storedMessages(t, client)
	require.Len(t, stored, 1)
	assert.Equal(t, "Ana", stored[0].Name)
	assert.Equal(t, models.SubjectPatternGrading, stored[0].Subject)
	assert.Equal(t, fixedNow, stored[0].CreatedAt)
	assert.Equal(t, stored[0].ID, res.Message.ID)
}

func TestSubmitDefaultsSubject(t *testing.T) {
	client := memory.New()
	res := newForm(client).Submit(context.Background(), Fields{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	require.True(t, res.Succeeded())
	assert.Equal(t, models.SubjectGeneralInquiry, storedMessages(t, client)[0].Subject)
}

func TestSubmitRejectsInvalidInputWithoutBackendCall(t *testing.T) {
	tests := []struct {
		name      string
		fields    Fields
		wantField string
	}{
		{"empty message", Fields{Name: "Ana", Email: "ana@example.com", Message: "   "}, "message"},
		{"missing name", Fields{Email: "ana@example.com", Message: "hi"}, "name"},
		{"bad email", Fields{Name: "Ana", Email: "not-an-email", Message: "hi"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := memory.New()
			res := newForm(client).Submit(context.Background(), tt.fields)

			assert.False(t, res.Succeeded())
			assert.Contains(t, res.FieldErrors, tt.wantField)
			assert.Equal(t, 0, client.Calls(memory.OpInsert))
		})
	}
}

func TestSubmitBackendFailureKeepsFields(t *testing.T) {
	client := memory.New()
	client.FailWith(memory.OpInsert, errors.New("new row violates row-level security policy"))

	form := newForm(client)
	fields := Fields{Name: "Ana", Email: "ana@example.com", Subject: "Custom", Message: "hi"}
	res := form.Submit(context.Background(), fields)

	assert.False(t, res.Succeeded())
	assert.Equal(t, "new row violates row-level security policy", res.Error)
	assert.Equal(t, fields, res.Fields)
	assert.False(t, res.ShowSuccess(fixedNow))

	// resubmission works once the backend recovers
	client.FailWith(memory.OpInsert, nil)
	assert.True(t, form.Submit(context.Background(), res.Fields).Succeeded())
}

type blankErr struct{}

func (blankErr) Error() string { return "" }

func TestSubmitBackendFailureFallbackMessage(t *testing.T) {
	client := memory.New()
	client.FailWith(memory.OpInsert, blankErr{})

	res := newForm(client).Submit(context.Background(), Fields{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	assert.Equal(t, FallbackError, res.Error)
}

func TestShowSuccessExpires(t *testing.T) {
	res := newForm(memory.New()).Submit(context.Background(), Fields{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	assert.True(t, res.ShowSuccess(fixedNow.Add(4*time.Second)))
	assert.False(t, res.ShowSuccess(fixedNow.Add(5*time.Second)))
}

type stubNotifier struct {
	got []models.ContactMessage
	err error
}

func (s *stubNotifier) NotifyContact(_ context.Context, msg models.ContactMessage) error {
	s.got = append(s.got, msg)
	return s.err
}

func TestSubmitNotifiesAndIgnoresNotifierFailure(t *testing.T) {
	n := &stubNotifier{err: errors.New("smtp down")}
	res := newForm(memory.New(), WithNotifier(n)).Submit(context.Background(), Fields{Name: "Ana", Email: "ana@example.com", Message: "hi"})

	assert.True(t, res.Succeeded())
	require.Len(t, n.got, 1)
	assert.Equal(t, "ana@example.com", n.got[0].Email)
}

func TestNotifierNotCalledOnFailure(t *testing.T) {
	client := memory.New()
	client.FailWith(memory.OpInsert, errors.New("down"))
	n := &stubNotifier{}

	newForm(client, WithNotifier(n)).Submit(context.Background(), Fields{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	assert.Empty(t, n.got)
}
