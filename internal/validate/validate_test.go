package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "complete document",
			doc: `{"equipment":[{"id":"T-101","type":"tank","spec":null,"temperature":25}],
			       "streams":[{"id":"S1","from":"T-101","to":"P-101","flow":100,"comp":"Water"}]}`,
		},
		{
			name: "empty sequences",
			doc:  `{"equipment":[],"streams":[]}`,
		},
		{
			name: "flow written as text",
			doc:  `{"equipment":[],"streams":[{"id":"S1","from":"A","to":"B","flow":"100 kg/h"}]}`,
		},
		{
			name:    "missing streams key",
			doc:     `{"equipment":[]}`,
			wantErr: true,
		},
		{
			name:    "equipment without type",
			doc:     `{"equipment":[{"id":"T-101"}],"streams":[]}`,
			wantErr: true,
		},
		{
			name:    "stream without flow",
			doc:     `{"equipment":[],"streams":[{"id":"S1","from":"A","to":"B"}]}`,
			wantErr: true,
		},
		{
			name:    "numeric id",
			doc:     `{"equipment":[{"id":101,"type":"pump"}],"streams":[]}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateMap(t *testing.T) {
	require.NoError(t, ValidateMap(map[string]any{
		"equipment": []any{map[string]any{"id": "P-1", "type": "pump"}},
		"streams":   []any{},
	}))
	assert.Error(t, ValidateMap(map[string]any{"equipment": "none", "streams": []any{}}))
}
