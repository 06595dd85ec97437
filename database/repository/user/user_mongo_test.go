package userRepo

import (
	"testing"

	"finbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUpsertDevicePipelineReplacesInOneUpdate(t *testing.T) {
	device := models.Device{DeviceID: "device-1", FCMToken: "tok"}
	pipeline := upsertDevicePipeline(device)

	// One stage: the remove-then-append happens inside a single document
	// update, so concurrent registrations cannot interleave.
	require.Len(t, pipeline, 1)
	require.Len(t, pipeline[0], 1)
	assert.Equal(t, "$set", pipeline[0][0].Key)

	set, ok := pipeline[0][0].Value.(bson.M)
	require.True(t, ok)
	assert.Contains(t, set, "updatedAt")

	concat, ok := set["devices"].(bson.M)["$concatArrays"].(bson.A)
	require.True(t, ok)
	require.Len(t, concat, 2)

	// First operand keeps every device except the one being registered.
	filter, ok := concat[0].(bson.M)["$filter"].(bson.M)
	require.True(t, ok)
	cond, ok := filter["cond"].(bson.M)["$ne"].(bson.A)
	require.True(t, ok)
	assert.Equal(t, "$$d.deviceId", cond[0])
	assert.Equal(t, "device-1", cond[1])

	// Second operand appends the new entry verbatim.
	appended, ok := concat[1].(bson.A)
	require.True(t, ok)
	require.Len(t, appended, 1)
	assert.Equal(t, device, appended[0].(bson.M)["$literal"])
}
