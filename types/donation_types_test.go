package types

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestPaymentFrequencyValid(t *testing.T) {
    assert.True(t, FrequencySingle.Valid())
    assert.True(t, FrequencyMonthly.Valid())

    assert.False(t, PaymentFrequency("yearly").Valid())
    assert.False(t, PaymentFrequency("").Valid())
    assert.False(t, PaymentFrequency("Single").Valid())
}
