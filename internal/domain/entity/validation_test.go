package entity

import (
	"errors"
	"net"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name:    "valid https URL",
			url:     "https://example.com/article",
			wantErr: false,
		},
		{
			name:    "valid http URL",
			url:     "http://example.com/article",
			wantErr: false,
		},
		{
			name:    "valid URL with port and query",
			url:     "https://example.com:8443/article?id=42",
			wantErr: false,
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "ftp scheme rejected",
			url:     "ftp://example.com/article",
			wantErr: true,
		},
		{
			name:    "file scheme rejected",
			url:     "file:///etc/passwd",
			wantErr: true,
		},
		{
			name:    "javascript scheme rejected",
			url:     "javascript:alert(1)",
			wantErr: true,
		},
		{
			name:    "no host",
			url:     "https://",
			wantErr: true,
		},
		{
			name:    "bare host without scheme",
			url:     "example.com",
			wantErr: true,
		},
		{
			name:    "URL exceeding maximum length",
			url:     "https://example.com/" + string(make([]byte, 2050)),
			wantErr: true,
		},
		{
			name:    "localhost rejected",
			url:     "http://localhost/admin",
			wantErr: true,
		},
		{
			name:    "loopback IP rejected",
			url:     "http://127.0.0.1/admin",
			wantErr: true,
		},
		{
			name:    "private 10.x IP rejected",
			url:     "http://10.0.0.1/article",
			wantErr: true,
		},
		{
			name:    "private 192.168.x IP rejected",
			url:     "http://192.168.1.1/article",
			wantErr: true,
		},
		{
			name:    "cloud metadata endpoint rejected",
			url:     "http://169.254.169.254/latest/meta-data",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL_ErrorTypes(t *testing.T) {
	t.Run("empty URL returns ValidationError", func(t *testing.T) {
		err := ValidateURL("")
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("expected ValidationError, got %T", err)
		}
	})

	t.Run("private network URL returns ValidationError", func(t *testing.T) {
		err := ValidateURL("http://192.168.1.1/article")
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("expected ValidationError, got %T", err)
		}
	})
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		name    string
		ip      string
		private bool
	}{
		{name: "loopback v4", ip: "127.0.0.1", private: true},
		{name: "loopback v6", ip: "::1", private: true},
		{name: "private 10.x", ip: "10.1.2.3", private: true},
		{name: "private 172.16.x", ip: "172.16.5.5", private: true},
		{name: "private 192.168.x", ip: "192.168.0.10", private: true},
		{name: "link-local", ip: "169.254.169.254", private: true},
		{name: "public v4", ip: "93.184.216.34", private: false},
		{name: "public v6", ip: "2606:2800:220:1:248:1893:25c8:1946", private: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("bad test IP %q", tt.ip)
			}

			if got := IsPrivateIP(ip); got != tt.private {
				t.Errorf("IsPrivateIP(%s) = %v, expected %v", tt.ip, got, tt.private)
			}
		})
	}
}
