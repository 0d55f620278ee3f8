package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func readDoc(t *testing.T) map[string]any {
	t.Helper()
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), raw)
	return doc
}

func tokenURL(doc map[string]any) any {
	defs := doc["securityDefinitions"].(map[string]any)
	return defs["OAuth2Password"].(map[string]any)["tokenUrl"]
}

func TestConfigure_FollowsAPIPrefix(t *testing.T) {
	t.Cleanup(func() { Configure("Web App", "1.0.0", "/api") })

	cases := []struct {
		prefix   string
		basePath string
		token    string
	}{
		{"/api", "/api", "/api/auth/token"},
		{"/v2", "/v2", "/v2/auth/token"},
		{"", "/", "/auth/token"},
	}
	for _, tc := range cases {
		Configure("Acme", "2.0.0", tc.prefix)
		doc := readDoc(t)
		assert.Equal(t, tc.basePath, doc["basePath"], tc.prefix)
		assert.Equal(t, tc.token, tokenURL(doc), tc.prefix)
		assert.Equal(t, "Acme", doc["info"].(map[string]any)["title"])
	}
}
