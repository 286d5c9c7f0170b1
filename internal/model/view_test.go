package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImagesRoundTrip(t *testing.T) {
	imgs := []string{"http://cdn/a.jpg", "http://cdn/b.png"}
	assert.Equal(t, imgs, DecodeImages(EncodeImages(imgs)))
}

func TestImagesEmpty(t *testing.T) {
	assert.Equal(t, "", EncodeImages(nil))
	assert.Nil(t, DecodeImages(""))
	assert.Nil(t, DecodeImages("not json"))
}
