package jsoncodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moveRequest struct {
	TaskID    string `json:"task_id"`
	DestIndex int    `json:"dest_index"`
}

func TestCodec(t *testing.T) {
	var c Codec
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&moveRequest{TaskID: "T1", DestIndex: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"task_id":"T1","dest_index":2}`, string(data))

	var got moveRequest
	require.NoError(t, c.Unmarshal(data, &got))
	assert.Equal(t, moveRequest{TaskID: "T1", DestIndex: 2}, got)

	var empty moveRequest
	require.NoError(t, c.Unmarshal(nil, &empty))
	assert.Zero(t, empty)

	assert.Error(t, c.Unmarshal([]byte("{"), &got))
}
