package pbs

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	"github.com/prisms-center/gopbs/config"
	"github.com/prisms-center/gopbs/helper/sshutil"
)

var walltimeWeights = []int64{1, 60, 3600, 86400}

// WalltimeSeconds converts a walltime string of the form [[[DD:]HH:]MM:]SS
// into a number of seconds. Jobs are usually declared with the HH:MM:SS form.
func WalltimeSeconds(walltime string) (int64, error) {
	fields := strings.Split(walltime, ":")
	if walltime == "" || len(fields) > 4 {
		return 0, errors.Errorf("invalid walltime %q: expected [[[DD:]HH:]MM:]SS", walltime)
	}
	var seconds int64
	for i := 0; i < len(fields); i++ {
		// fields are weighted right to left
		v, err := strconv.ParseInt(fields[len(fields)-1-i], 10, 64)
		if err != nil || v < 0 {
			return 0, errors.Errorf("invalid walltime %q: expected [[[DD:]HH:]MM:]SS", walltime)
		}
		seconds += v * walltimeWeights[i]
	}
	return seconds, nil
}

func parsePriority(priority string) (int, error) {
	p, err := strconv.Atoi(priority)
	return p, errors.Wrapf(err, "invalid priority %q: expected an integer", priority)
}

// parseJobIDFromQsubOutput extracts the opaque job identifier from a qsub
// stdout, e.g. "12345.nyx.arc-ts.umich.edu". qsub may print informational
// lines first, the identifier is the last non-empty line.
func parseJobIDFromQsubOutput(output string) (string, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if fields := strings.Fields(lines[i]); len(fields) > 0 {
			return fields[0], nil
		}
	}
	return "", errors.Errorf("no job identifier found in qsub output %q", output)
}

// GetSSHClient returns an SSH client to the cluster front-end described by
// the scheduler section of the configuration
func GetSSHClient(cfg config.Configuration) (*sshutil.SSHClient, error) {
	if err := checkSchedulerUserConfig(cfg); err != nil {
		return nil, err
	}
	var auth []ssh.AuthMethod
	if pk := cfg.Scheduler.GetString("private_key"); pk != "" {
		keyAuth, err := sshutil.ReadPrivateKey(pk)
		if err != nil {
			return nil, err
		}
		auth = append(auth, keyAuth)
	} else {
		auth = append(auth, ssh.Password(cfg.Scheduler.GetString("password")))
	}

	return &sshutil.SSHClient{
		Config: &ssh.ClientConfig{
			User:            cfg.Scheduler.GetString("user_name"),
			Auth:            auth,
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		},
		Host: cfg.Scheduler.GetString("url"),
		Port: cfg.Scheduler.GetIntOrDefault("port", config.DefaultSSHPort),
	}, nil
}

func checkSchedulerUserConfig(cfg config.Configuration) error {
	if cfg.Scheduler.GetString("user_name") == "" {
		return errors.New("scheduler configuration is missing mandatory parameter \"user_name\"")
	}
	if cfg.Scheduler.GetString("url") == "" {
		return errors.New("scheduler configuration is missing mandatory parameter \"url\"")
	}
	if cfg.Scheduler.GetString("private_key") == "" && cfg.Scheduler.GetString("password") == "" {
		return errors.New("scheduler configuration must define at least one of \"private_key\" or \"password\"")
	}
	return nil
}
