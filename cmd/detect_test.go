package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeeftor/automaton/internal/constants"
)

func TestDetectFlagHelpShowsDefaults(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"confidence", "(default 0.8)"},
		{"timeout", "(default " + constants.DefaultMatchTimeout.String() + ")"},
		{"interval", "(default " + constants.DefaultMatchInterval.String() + ")"},
	}
	for _, tt := range tests {
		f := detectCmd.Flags().Lookup(tt.flag)
		if assert.NotNil(t, f, tt.flag) {
			assert.Contains(t, f.Usage, tt.want, tt.flag)
		}
	}
	assert.Contains(t, detectCmd.Flags().Lookup("timeout").Usage, "30s")
	assert.Contains(t, detectCmd.Flags().Lookup("interval").Usage, "1s")
}
