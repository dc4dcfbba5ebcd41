package main

import (
	"context"
	"flag"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premarket-scan/internal/app"
)

func TestResolvePolicies(t *testing.T) {
	conf, plan, err := resolvePolicies(app.PolicyNames{Confidence: "gainer", TradePlan: "recent-high"})
	require.NoError(t, err)
	assert.Equal(t, "gainer", conf.Name())
	assert.Equal(t, "recent-high", plan.Name())

	_, _, err = resolvePolicies(app.PolicyNames{Confidence: "loud", TradePlan: "recent-high"})
	assert.ErrorContains(t, err, "loud")

	_, _, err = resolvePolicies(app.PolicyNames{Confidence: "composite", TradePlan: "moon"})
	assert.ErrorContains(t, err, "moon")
}

func TestExecute_UnknownFormatIsUsageError(t *testing.T) {
	cases := []subcommands.Command{
		&watchlistCmd{file: "watch.csv", premarketStart: "04:00", format: "html"},
		&gainersCmd{lookback: 5, format: "html"},
	}
	for _, cmd := range cases {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		f.Usage = func() {}
		assert.Equal(t, subcommands.ExitUsageError, cmd.Execute(context.Background(), f), cmd.Name())
	}
}
