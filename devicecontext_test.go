package vkx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func computeOnlyFamily(index int) QueueFamilyCapability {
	return QueueFamilyCapability{Index: index, SupportsCompute: true}
}

func graphicsFamily(index int) QueueFamilyCapability {
	return QueueFamilyCapability{Index: index, SupportsCompute: true, SupportsGraphics: true}
}

func transferOnlyFamily(index int) QueueFamilyCapability {
	return QueueFamilyCapability{Index: index}
}

func TestSelectDeviceFirstMatchWins(t *testing.T) {
	caps := []DeviceCapability{
		{QueueFamilies: []QueueFamilyCapability{computeOnlyFamily(0)}},
		{QueueFamilies: []QueueFamilyCapability{graphicsFamily(0)}},
	}

	deviceIndex, familyIndex, err := SelectDevice(caps, QueueCapabilityCompute)
	require.NoError(t, err)

	// Both devices qualify; enumeration order decides.
	assert.Equal(t, 0, deviceIndex)
	assert.Equal(t, 0, familyIndex)
}

func TestSelectDeviceSkipsIncapableDevices(t *testing.T) {
	// The first two devices have no graphics family; the third's graphics
	// family sits at index 2 behind two non-graphics families.
	caps := []DeviceCapability{
		{QueueFamilies: []QueueFamilyCapability{computeOnlyFamily(0)}},
		{QueueFamilies: []QueueFamilyCapability{transferOnlyFamily(0)}},
		{QueueFamilies: []QueueFamilyCapability{
			transferOnlyFamily(0),
			computeOnlyFamily(1),
			graphicsFamily(2),
		}},
	}

	deviceIndex, familyIndex, err := SelectDevice(caps, QueueCapabilityGraphics)
	require.NoError(t, err)
	assert.Equal(t, 2, deviceIndex)
	assert.Equal(t, 2, familyIndex)
}

func TestSelectDeviceNoCapableDevice(t *testing.T) {
	caps := []DeviceCapability{
		{QueueFamilies: []QueueFamilyCapability{computeOnlyFamily(0)}},
	}

	_, _, err := SelectDevice(caps, QueueCapabilityGraphics)
	require.Error(t, err)

	var noDevice *NoCapableDeviceError
	require.ErrorAs(t, err, &noDevice)
	assert.Equal(t, QueueCapabilityGraphics, noDevice.Required)
}

func TestSelectDeviceEmptyList(t *testing.T) {
	_, _, err := SelectDevice(nil, QueueCapabilityCompute)

	var noDevice *NoCapableDeviceError
	require.ErrorAs(t, err, &noDevice)
}

func TestQueueFamilyCapabilitySupports(t *testing.T) {
	family := graphicsFamily(0)
	assert.True(t, family.Supports(QueueCapabilityCompute))
	assert.True(t, family.Supports(QueueCapabilityGraphics))

	family = computeOnlyFamily(0)
	assert.True(t, family.Supports(QueueCapabilityCompute))
	assert.False(t, family.Supports(QueueCapabilityGraphics))
}
