package gcsfetch

import "testing"

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://statements/2025/mayo.pdf", "statements", "2025/mayo.pdf", false},
		{"gs://statements/batch/", "statements", "batch/", false},
		{"gs://statements", "", "", true},
		{"gs://", "", "", true},
		{"https://statements/file.pdf", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		bucket, object, err := ParseURI(tt.uri)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			continue
		}
		if bucket != tt.wantBucket || object != tt.wantObject {
			t.Errorf("ParseURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
		}
	}
}
