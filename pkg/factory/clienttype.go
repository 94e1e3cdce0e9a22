package factory

import (
	"time"

	"github.com/telekom/k8s-client-factory/pkg/config"
)

// ClientType is the role a constructed client serves. Each role carries its
// own timeout configuration keys; new roles are added to the table below,
// never by branching on strings elsewhere.
type ClientType string

const (
	Driver     ClientType = "driver"
	Submission ClientType = "submission"
)

// DefaultTimeoutMillis applies when a role's timeout keys are not configured.
const DefaultTimeoutMillis = 10000

type timeoutKeys struct {
	request    string
	connection string
}

var clientTypeTimeouts = map[ClientType]timeoutKeys{
	Driver: {
		request:    "kubernetes.driver.requestTimeout",
		connection: "kubernetes.driver.connectionTimeout",
	},
	Submission: {
		request:    "kubernetes.submission.requestTimeout",
		connection: "kubernetes.submission.connectionTimeout",
	},
}

// Known reports whether t is a member of the closed client type set.
func (t ClientType) Known() bool {
	_, ok := clientTypeTimeouts[t]
	return ok
}

// RequestTimeoutKey returns the configuration key holding the role's request
// timeout in milliseconds.
func (t ClientType) RequestTimeoutKey() string {
	return clientTypeTimeouts[t].request
}

// ConnectionTimeoutKey returns the configuration key holding the role's
// connection timeout in milliseconds.
func (t ClientType) ConnectionTimeoutKey() string {
	return clientTypeTimeouts[t].connection
}

// Timeouts looks up the role's request and connection timeouts. This is a
// pure lookup; out-of-range values are the configuration layer's concern.
func (t ClientType) Timeouts(cfg config.Lookup) (request, connection time.Duration) {
	keys := clientTypeTimeouts[t]
	request = time.Duration(config.IntOr(cfg, keys.request, DefaultTimeoutMillis)) * time.Millisecond
	connection = time.Duration(config.IntOr(cfg, keys.connection, DefaultTimeoutMillis)) * time.Millisecond
	return request, connection
}
