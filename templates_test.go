package billkit

import (
	"strings"
	"testing"

	ierr "github.com/billkit/billkit-go/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTemplateHTML = `<!DOCTYPE html>
<html>
<body>
  <h1>Invoice {{ invoice_number }} / Quote {{ quote_number }}</h1>
  <p>{{ client_name }} &lt;{{ client_email }}&gt;</p>
  <p>Due: {{ due_date }}</p>
  {% for item in items %}
    <div>{{ item.description }}</div>
  {% endfor %}
</body>
</html>`

func TestValidateTemplateHTML(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		wantErr string
	}{
		{
			name: "valid template passes",
			html: validTemplateHTML,
		},
		{
			name: "leading whitespace and mixed case doctype pass",
			html: "\n\t  <!doctype HTML>\n<HTML><body></body></HTML>",
		},
		{
			name:    "missing doctype fails",
			html:    "<html><body></body></html>",
			wantErr: "DOCTYPE",
		},
		{
			name:    "missing html tags fails",
			html:    "<!DOCTYPE html>\n<body></body>",
			wantErr: "<html>",
		},
		{
			name:    "unbalanced expression markers fail",
			html:    "<!DOCTYPE html><html><body>{{ name }</body></html>",
			wantErr: "{{ }}",
		},
		{
			name:    "unbalanced block markers fail",
			html:    "<!DOCTYPE html><html><body>{% if x %}{% endif</body></html>",
			wantErr: "{% %}",
		},
		{
			name:    "oversized html fails regardless of structure",
			html:    validTemplateHTML + strings.Repeat("x", MaxTemplateHTMLLength),
			wantErr: "too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplateHTML(tt.html)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTemplateHTMLStrict(t *testing.T) {
	require.NoError(t, ValidateTemplateHTMLStrict(validTemplateHTML))

	// Dropping any required variable fails
	for _, variable := range []string{
		"client_name", "client_email", "items",
		"invoice_number", "due_date", "quote_number",
	} {
		t.Run("missing "+variable, func(t *testing.T) {
			html := strings.ReplaceAll(validTemplateHTML, variable, "omitted")
			err := ValidateTemplateHTMLStrict(html)
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestCreateTemplateRequest_Validate(t *testing.T) {
	req := CreateTemplateRequest{Name: "My Template", HTML: validTemplateHTML}
	require.NoError(t, req.Validate())

	req = CreateTemplateRequest{Name: "", HTML: validTemplateHTML}
	require.Error(t, req.Validate())

	req = CreateTemplateRequest{Name: strings.Repeat("n", 201), HTML: validTemplateHTML}
	require.Error(t, req.Validate())

	req = CreateTemplateRequest{Name: "My Template", HTML: ""}
	require.Error(t, req.Validate())
}

func TestUpdateTemplateRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateTemplateRequest
		wantErr bool
	}{
		{"neither field set", UpdateTemplateRequest{}, true},
		{"name only", UpdateTemplateRequest{Name: lo.ToPtr("Renamed")}, false},
		{"valid html only", UpdateTemplateRequest{HTML: lo.ToPtr(validTemplateHTML)}, false},
		{"invalid html", UpdateTemplateRequest{HTML: lo.ToPtr("<div>nope</div>")}, true},
		{"empty name", UpdateTemplateRequest{Name: lo.ToPtr("")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			require.NoError(t, err)
		})
	}
}
