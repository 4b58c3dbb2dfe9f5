package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{Level: "info", Format: "json", Environment: "production"}, false},
		{Config{Level: "DEBUG", Format: "console", Environment: "development"}, false},
		{Config{Level: "warn"}, false},
		{Config{Level: "loud", Format: "json"}, true},
		{Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		log, err := New(tt.cfg)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%+v) err = %v, wantErr %v", tt.cfg, err, tt.wantErr)
			continue
		}
		if err == nil {
			_ = log.Sync()
		}
	}
}
