package pbs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prisms-center/gopbs/config"
)

func TestWalltimeSeconds(t *testing.T) {
	t.Parallel()
	type want struct {
		seconds int64
		wantErr bool
	}

	tests := []struct {
		name     string
		walltime string
		want     want
	}{
		{"TestHoursMinutesSeconds", "10:00:00", want{36000, false}},
		{"TestSecondsOnly", "90", want{90, false}},
		{"TestMinutesSeconds", "2:30", want{150, false}},
		{"TestDaysHoursMinutesSeconds", "1:00:00:00", want{86400, false}},
		{"TestEmpty", "", want{0, true}},
		{"TestTooManyFields", "1:2:3:4:5", want{0, true}},
		{"TestNotANumber", "ten:00:00", want{0, true}},
		{"TestNegativeField", "-1:00", want{0, true}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			seconds, err := WalltimeSeconds(tt.walltime)
			if tt.want.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want.seconds, seconds)
		})
	}
}

func TestParseJobIDFromQsubOutput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{"TestPlainID", "12345.nyx.arc-ts.umich.edu\n", "12345.nyx.arc-ts.umich.edu", false},
		{"TestNoTrailingNewline", "12345.nyx.arc-ts.umich.edu", "12345.nyx.arc-ts.umich.edu", false},
		{"TestWarningBeforeID", "qsub: waiting for job routing\n12345.nyx\n", "12345.nyx", false},
		{"TestEmptyOutput", "", "", true},
		{"TestBlankOutput", "  \n \n", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			jobID, err := parseJobIDFromQsubOutput(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, jobID)
		})
	}
}

// Tests the definition of a private key in configuration
func TestGetSSHClient(t *testing.T) {
	t.Parallel()
	// First generate a valid private key content
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	bArray := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY",
		Headers: nil,
		Bytes:   x509.MarshalPKCS1PrivateKey(priv)})
	privateKeyContent := string(bArray)

	cfg := config.Configuration{
		Scheduler: config.DynamicMap{
			"user_name":   "jdoe",
			"url":         "127.0.0.1",
			"port":        22,
			"private_key": privateKeyContent},
	}

	client, err := GetSSHClient(cfg)
	assert.NoError(t, err, "Unexpected error getting a ssh client using a configuration with private key")
	assert.Equal(t, 22, client.Port)
	assert.Equal(t, "jdoe", client.Config.User)

	// Remove the private key.
	// As there is no password defined either, check an error is returned
	cfg.Scheduler.Set("private_key", "")
	_, err = GetSSHClient(cfg)
	assert.Error(t, err, "Expected an error getting a ssh client with no private key and no password defined")

	// Setting a wrong private key path
	// Check the attempt to use this key for the authentication method is failing
	cfg.Scheduler.Set("private_key", "invalid_path_to_key.pem")
	_, err = GetSSHClient(cfg)
	assert.Error(t, err, "Expected an error getting a ssh client using a bad private key")

	// Scheduler configuration with no private key but a password, the config should be valid
	cfg.Scheduler = config.DynamicMap{
		"user_name": "jdoe",
		"url":       "127.0.0.1",
		"password":  "test",
	}
	client, err = GetSSHClient(cfg)
	assert.NoError(t, err, "Unexpected error getting a ssh client using a configuration with password")
	assert.Equal(t, config.DefaultSSHPort, client.Port)

	// Missing mandatory parameters
	cfg.Scheduler.Set("user_name", "")
	_, err = GetSSHClient(cfg)
	assert.Error(t, err, "Expected an error getting a ssh client with no user name")

	cfg.Scheduler = config.DynamicMap{"user_name": "jdoe", "password": "test"}
	_, err = GetSSHClient(cfg)
	assert.Error(t, err, "Expected an error getting a ssh client with no url")
}
