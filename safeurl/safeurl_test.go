package safeurl

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"https://203.0.113.7", true},
		// the prefix bug is gone: public hostnames starting with a
		// private-looking label are allowed
		{"http://172.xyz.com", true},
		{"http://10best.com", true},

		{"file:///etc/passwd", false},
		{"ftp://example.com", false},
		{"javascript:alert(1)", false},
		{"", false},
		{"://bad", false},

		{"http://localhost", false},
		{"http://localhost:8080", false},
		{"http://app.localhost", false},
		{"http://127.0.0.1", false},
		{"http://127.8.8.8", false},
		{"http://0.0.0.0", false},

		{"http://192.168.1.5", false},
		{"http://10.0.0.1", false},
		{"http://172.16.0.1", false},
		{"http://172.31.255.255", false},
		{"http://169.254.1.1", false},
		{"http://100.64.0.1", false},
		{"http://[::1]", false},
		{"http://[fe80::1]", false},
		{"http://[fd00::1]", false},
	}
	for _, c := range cases {
		if got := Validate(c.url); got != c.want {
			t.Errorf("Validate(%q) = %v, want %v", c.url, got, c.want)
		}
	}
}
