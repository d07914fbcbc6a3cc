// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

/*
TestUserIndexModels checks that both identity lookup fields carry a unique
constraint, which is what registration's conflict detection relies on.
*/
func TestUserIndexModels(t *testing.T) {
	models := userIndexModels()
	require.Len(t, models, 2)

	assert.Equal(t, bson.D{{Key: "userName", Value: 1}}, models[0].Keys)
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, models[1].Keys)

	for _, model := range models {
		require.NotNil(t, model.Options)
		require.NotNil(t, model.Options.Unique)
		assert.True(t, *model.Options.Unique)
	}
}

/*
TestSubscriptionIndexModels checks that the channel/subscriber pair is
constrained to a single document, so duplicate subscriptions cannot skew the
channel counters.
*/
func TestSubscriptionIndexModels(t *testing.T) {
	models := subscriptionIndexModels()
	require.Len(t, models, 2)

	pair := models[0]
	assert.Equal(t, bson.D{{Key: "channel", Value: 1}, {Key: "subscriber", Value: 1}}, pair.Keys)
	require.NotNil(t, pair.Options)
	require.NotNil(t, pair.Options.Unique)
	assert.True(t, *pair.Options.Unique)

	// Per-subscriber counts are served by a plain index.
	assert.Equal(t, bson.D{{Key: "subscriber", Value: 1}}, models[1].Keys)
	assert.Nil(t, models[1].Options)
}
