package enum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncFrequencyInterval(t *testing.T) {
	assert.Equal(t, time.Duration(0), SyncFrequencyManual.Interval())
	assert.Equal(t, time.Hour, SyncFrequencyHourly.Interval())
	assert.Equal(t, 24*time.Hour, SyncFrequencyDaily.Interval())
	assert.Equal(t, 30*time.Second, SyncFrequencyRealTime.Interval())
}
