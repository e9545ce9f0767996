package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("mesh:tree")
	assert.Equal(t, "mesh:tree", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(1))
	assert.Nil(t, p.Sampler(9))
	assert.Zero(t, p.IndexCount())
}

func TestReleaseOnEmptyProvider(t *testing.T) {
	p := NewBindGroupProvider("empty", WithMesh(nil, nil, 36))
	assert.Equal(t, 36, p.IndexCount())

	p.SetBuffer(0, nil)
	p.SetTexture(1, nil, nil)
	p.SetSampler(2, nil)
	assert.NotPanics(t, p.Release)
	assert.Zero(t, p.IndexCount())
}

func TestBufferWriteValid(t *testing.T) {
	p := NewBindGroupProvider("uniforms")
	assert.False(t, BufferWrite{Provider: p, Data: []byte{1}}.Valid())
	assert.False(t, BufferWrite{Data: []byte{1}}.Valid())
	assert.False(t, BufferWrite{Provider: p}.Valid())
}
