package checks

import (
	"testing"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
)

func TestWebToolRedirectLimit(t *testing.T) {
	tests := []struct {
		name  string
		fetch map[string]any
		want  int
	}{
		{"raised limit", map[string]any{"enabled": true, "maxRedirects": 10}, 1},
		{"at ceiling", map[string]any{"enabled": true, "maxRedirects": 3}, 0},
		{"below ceiling", map[string]any{"enabled": true, "maxRedirects": 1}, 0},
		{"limit unset", map[string]any{"enabled": true}, 0},
		{"tool disabled", map[string]any{"enabled": false, "maxRedirects": 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{
				"tools": map[string]any{
					"web": map[string]any{"fetch": tt.fetch},
				},
			})
			findings := WebToolCheck{}.Run(cfg, ctxWith(core.SchemaCurrent))
			if len(findings) != tt.want {
				t.Fatalf("findings = %v, want %d", codes(findings), tt.want)
			}
			if tt.want == 1 && findings[0].Code != "WEB001" {
				t.Errorf("code = %q", findings[0].Code)
			}
		})
	}
}

func TestWebToolEmptyConfig(t *testing.T) {
	if findings := (WebToolCheck{}).Run(config.New(nil), ctxWith(core.SchemaUnknown)); len(findings) != 0 {
		t.Errorf("empty config: findings = %v", codes(findings))
	}
}
