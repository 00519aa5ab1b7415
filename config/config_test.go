package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_KEY", "a=b")

	c := New()
	assert.Equal(t, "a=b", c["PORTFOLIO_TEST_KEY"])
}

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "nine",
		"FLAG":    "true",
		"ORIGINS": " https://a.dev, ,https://b.dev ",
	}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "8080", GetString(nil, "PORT", "8080"))
	assert.Equal(t, 9090, GetInt(c, "PORT", 1))
	assert.Equal(t, 1, GetInt(c, "BAD_INT", 1))
	assert.True(t, GetBool(c, "FLAG", false))
	assert.False(t, GetBool(c, "PORT", false))
	assert.True(t, GetBool(c, "MISSING", true))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetList(c, "ORIGINS"))
	assert.Nil(t, GetList(c, "MISSING"))
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
	out := &ssm.GetParametersByPathOutput{Parameters: f.pages[f.calls]}
	f.calls++
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestLoadSSMParameters_Overlay(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{
			{Name: aws.String("/portfolio/prod/DATABASE_URL"), Value: aws.String("postgres://ssm")},
			{Name: aws.String("/portfolio/prod/PORT"), Value: aws.String("7000")},
		},
		{
			{Name: aws.String("/portfolio/prod/ADMIN_JWT_SECRET"), Value: aws.String("s3cret")},
		},
	}}
	c := map[string]string{"PORT": "8080"}

	added, err := LoadSSMParameters(context.Background(), client, c, "/portfolio/prod")
	require.NoError(t, err)

	assert.Equal(t, 2, added)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "postgres://ssm", c["DATABASE_URL"])
	assert.Equal(t, "8080", c["PORT"], "environment wins over SSM")
	assert.Equal(t, "s3cret", c["ADMIN_JWT_SECRET"])
}

func TestLoadSSMParameters_Error(t *testing.T) {
	client := &fakeSSM{err: errors.New("access denied")}

	_, err := LoadSSMParameters(context.Background(), client, map[string]string{}, "/portfolio")
	assert.ErrorContains(t, err, "access denied")
}
