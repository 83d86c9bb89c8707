package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

func newSSMClient(ctx context.Context) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// OverlaySSM copies every parameter under prefix into c, keyed by the last
// path segment, so /portfolio/prod/RESEND_API_KEY sets RESEND_API_KEY.
// Parameters override values already in c.
func OverlaySSM(ctx context.Context, c map[string]string, client ssm.GetParametersByPathAPIClient, prefix string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("read ssm parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			name := aws.ToString(p.Name)
			if name == "" {
				continue
			}
			c[path.Base(name)] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", prefix).Int("count", loaded).Msg("Loaded parameters from SSM")
	return nil
}
