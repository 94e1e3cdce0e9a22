package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/telekom/k8s-client-factory/pkg/config"
)

func TestClientTypeKnown(t *testing.T) {
	assert.True(t, Driver.Known())
	assert.True(t, Submission.Known())
	assert.False(t, ClientType("executor").Known())
}

func TestClientTypeTimeoutKeys(t *testing.T) {
	assert.Equal(t, "kubernetes.driver.requestTimeout", Driver.RequestTimeoutKey())
	assert.Equal(t, "kubernetes.driver.connectionTimeout", Driver.ConnectionTimeoutKey())
	assert.Equal(t, "kubernetes.submission.requestTimeout", Submission.RequestTimeoutKey())
	assert.Equal(t, "kubernetes.submission.connectionTimeout", Submission.ConnectionTimeoutKey())
}

func TestClientTypeTimeoutsDefaults(t *testing.T) {
	request, connection := Driver.Timeouts(config.Properties{})
	assert.Equal(t, time.Duration(DefaultTimeoutMillis)*time.Millisecond, request)
	assert.Equal(t, time.Duration(DefaultTimeoutMillis)*time.Millisecond, connection)
}

func TestClientTypeTimeoutsIndependentPerRole(t *testing.T) {
	cfg := config.Properties{
		"kubernetes.driver.requestTimeout":        "1000",
		"kubernetes.driver.connectionTimeout":     "2000",
		"kubernetes.submission.requestTimeout":    "5000",
		"kubernetes.submission.connectionTimeout": "6000",
	}

	request, connection := Submission.Timeouts(cfg)
	assert.Equal(t, 5*time.Second, request)
	assert.Equal(t, 6*time.Second, connection)

	request, connection = Driver.Timeouts(cfg)
	assert.Equal(t, 1*time.Second, request)
	assert.Equal(t, 2*time.Second, connection)
}

func TestClientTypeTimeoutsPure(t *testing.T) {
	cfg := config.Properties{"kubernetes.driver.requestTimeout": "1234"}

	r1, c1 := Driver.Timeouts(cfg)
	r2, c2 := Driver.Timeouts(cfg)
	assert.Equal(t, r1, r2)
	assert.Equal(t, c1, c2)
}
