package config

import (
	"context"
	"fmt"
	"path"

	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterLister is the slice of the SSM API the overlay needs.
type ParameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewSSMClient builds a client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// LoadSSMParameters copies every parameter stored under parameterPath into
// config. The key is the last segment of the parameter name. Keys already
// present (set in the environment) win. Returns how many keys were added.
func LoadSSMParameters(ctx context.Context, client ParameterLister, config map[string]string, parameterPath string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	added := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return added, fmt.Errorf("reading parameters under %s: %w", parameterPath, err)
		}
		for _, p := range page.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if key == "" || key == "/" || key == "." {
				continue
			}
			if _, exists := config[key]; exists {
				continue
			}
			config[key] = aws.ToString(p.Value)
			added++
		}
	}

	log.Info().Str("path", parameterPath).Int("added", added).Msg("loaded SSM parameters")
	return added, nil
}

// Load snapshots the environment and, when SSM_PARAMETER_PATH is set, overlays
// the parameters stored there.
func Load(ctx context.Context) (map[string]string, error) {
	c := New()
	parameterPath := GetString(c, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return c, nil
	}

	client, err := NewSSMClient(ctx)
	if err != nil {
		return c, errs.NewConfigError("SSM client", err)
	}
	if _, err := LoadSSMParameters(ctx, client, c, parameterPath); err != nil {
		return c, errs.NewConfigError("SSM parameters under "+parameterPath, err)
	}
	return c, nil
}
