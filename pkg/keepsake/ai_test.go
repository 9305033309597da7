package keepsake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDraftPrompt(t *testing.T) {
	l := Letter{Partner: "Alex", Sender: "Sam", Since: testNow.Add(-30 * 24 * time.Hour)}
	p := draftPrompt(l, testNow, " our trip to Lisbon ")

	assert.Contains(t, p, "addressed to Alex")
	assert.Contains(t, p, "written by Sam")
	assert.Contains(t, p, "together for 30 days")
	assert.Contains(t, p, "Work in this detail: our trip to Lisbon.")

	bare := draftPrompt(Letter{}, testNow, "")
	assert.NotContains(t, bare, "addressed")
	assert.NotContains(t, bare, "together for")
	assert.NotContains(t, bare, "detail")
}
