package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":             "9090",
		"BAD_INT":          "nine",
		"COOKIE_SECURE":    "true",
		"BAD_BOOL":         "maybe",
		"ACCEPTED_ORIGINS": " https://a.example , ,https://b.example",
	}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "8080", GetString(c, "MISSING", "8080"))
	assert.Equal(t, "x", GetString(nil, "PORT", "x"))

	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 7, GetInt(c, "BAD_INT", 7))

	assert.True(t, GetBool(c, "COOKIE_SECURE", false))
	assert.False(t, GetBool(c, "BAD_BOOL", false))
	assert.True(t, GetBool(c, "MISSING", true))

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetList(c, "ACCEPTED_ORIGINS"))
	assert.Empty(t, GetList(c, "MISSING"))
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_KEY", "a=b")
	assert.Equal(t, "a=b", New()["PORTFOLIO_TEST_KEY"])
}

func TestSplit(t *testing.T) {
	k, v := split("NOVALUE")
	assert.Equal(t, "NOVALUE", k)
	assert.Equal(t, "", v)
}

type fakeSSM struct {
	pages [][]types.Parameter
	calls int
	err   error
}

func (f *fakeSSM) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++
	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestOverlaySSM(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{{Name: aws.String("/portfolio/prod/RESEND_API_KEY"), Value: aws.String("re_123")}},
		{{Name: aws.String("/portfolio/prod/PORT"), Value: aws.String("9000")}},
	}}
	c := map[string]string{"PORT": "8080", "DB_TYPE": "memory"}

	require.NoError(t, OverlaySSM(context.Background(), c, client, "/portfolio/prod"))
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "re_123", c["RESEND_API_KEY"])
	assert.Equal(t, "9000", c["PORT"])
	assert.Equal(t, "memory", c["DB_TYPE"])
}

func TestOverlaySSMError(t *testing.T) {
	client := &fakeSSM{err: errors.New("access denied")}
	err := OverlaySSM(context.Background(), map[string]string{}, client, "/portfolio")
	assert.ErrorContains(t, err, "access denied")
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	original := log.Logger
	defer func() { log.Logger = original }()

	file := filepath.Join(t.TempDir(), "site.log")
	closer := SetupLogging(map[string]string{"LOG_LEVEL": "debug", "LOG_FILE": file})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	log.Info().Msg("written to file")
	require.NoError(t, closer.Close())
	assert.FileExists(t, file)

	SetupLogging(map[string]string{"LOG_LEVEL": "nonsense"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
