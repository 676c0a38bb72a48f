package social

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckText(t *testing.T) {
	svc := NewService(nil, nil, WithLogger(quietLogger()))

	cases := map[string]struct {
		text string
		ok   bool
	}{
		"plain":              {"hello", true},
		"empty":              {"", false},
		"ascii whitespace":   {" \t\r\n\v\f", false},
		"unit separators":    {"\u001c\u001f", false},
		"em and ideographic": {"\u2003\u3000", false},
		"no-break space":     {"\u00a0", true},
		"narrow no-break":    {"\u202f", true},
		"next line":          {"\u0085", true},
		"at limit":           {strings.Repeat("a", MaxMessageLength), true},
		"over limit":         {strings.Repeat("a", MaxMessageLength+1), false},
		"multibyte at limit": {strings.Repeat("日", MaxMessageLength), true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.checkText(tc.text)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidInput)
			}
		})
	}
}

func TestCheckRegistrationPasswordLength(t *testing.T) {
	req := require.New(t)
	svc := NewService(nil, nil, WithLogger(quietLogger()))

	req.ErrorIs(svc.checkRegistration("user", strings.Repeat("p", MinPasswordLength-1)), ErrInvalidInput)
	req.NoError(svc.checkRegistration("user", strings.Repeat("p", MinPasswordLength)))
	req.NoError(svc.checkRegistration("user", "pässwörd"))
	req.ErrorIs(svc.checkRegistration("user", "äöü"), ErrInvalidInput)
	req.ErrorIs(svc.checkRegistration(" ", "password"), ErrInvalidInput)
}
