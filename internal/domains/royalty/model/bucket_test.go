package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPlatform(t *testing.T) {
	tests := []struct {
		platform string
		want     PlatformBucket
	}{
		{"Website", BucketWebsite},
		{"direct", BucketWebsite},
		{"Direct Sales", BucketWebsite},
		{"  website  ", BucketWebsite},

		{"Kindle", BucketEbook},
		{"Amazon Kindle", BucketEbook},
		{"Google Books", BucketEbook},
		{"google play", BucketEbook},
		{"Kobo", BucketEbook},
		{"Apple Books", BucketEbook},
		{"NOOK", BucketEbook},
		{"ebook store", BucketEbook},

		{"Amazon", BucketEcommerce},
		{"Flipkart", BucketEcommerce},
		{"some new channel", BucketEcommerce},
		{"", BucketEcommerce},
		{"   ", BucketEcommerce},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPlatform(tt.platform))
		})
	}
}

func TestClassifyPlatform_WebsiteBeatsEbook(t *testing.T) {
	// A label matching both marker sets resolves to WEBSITE.
	assert.Equal(t, BucketWebsite, ClassifyPlatform("website ebook reader"))
	assert.Equal(t, BucketWebsite, ClassifyPlatform("kindle direct publishing"))
}
