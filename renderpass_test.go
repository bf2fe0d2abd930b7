package vkx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func presentableTarget() RenderTarget {
	return RenderTarget{
		ColorFormat: vk.FormatB8g8r8a8Unorm,
		DepthFormat: vk.FormatD16Unorm,
		Samples:     vk.SampleCount1Bit,
		Presentable: true,
	}
}

func TestRenderTargetCompatibilityMatch(t *testing.T) {
	require.NoError(t, checkRenderTargetCompatibility(presentableTarget(), presentableTarget()))
}

func TestRenderTargetCompatibilityColorMismatch(t *testing.T) {
	got := presentableTarget()
	got.ColorFormat = vk.FormatR8g8b8a8Unorm

	err := checkRenderTargetCompatibility(presentableTarget(), got)
	var incompatible *IncompatibleRenderTargetError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, "ColorFormat", incompatible.Field)
}

func TestRenderTargetCompatibilityDepthMismatch(t *testing.T) {
	got := presentableTarget()
	got.DepthFormat = vk.FormatUndefined

	err := checkRenderTargetCompatibility(presentableTarget(), got)
	var incompatible *IncompatibleRenderTargetError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, "DepthFormat", incompatible.Field)
}

func TestRenderTargetCompatibilitySampleMismatch(t *testing.T) {
	got := presentableTarget()
	got.Samples = vk.SampleCount4Bit

	err := checkRenderTargetCompatibility(presentableTarget(), got)
	var incompatible *IncompatibleRenderTargetError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, "Samples", incompatible.Field)
}

func TestRenderTargetHasDepth(t *testing.T) {
	assert.True(t, presentableTarget().HasDepth())

	noDepth := presentableTarget()
	noDepth.DepthFormat = vk.FormatUndefined
	assert.False(t, noDepth.HasDepth())
}
