package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camtools/camerainit/internal/camera"
	"github.com/camtools/camerainit/internal/model"
)

func metadataView(id uint32, path string) *model.View {
	v := model.NewView(id, path)
	v.Width = 4000
	v.Height = 3000
	v.Metadata[model.MetaMake] = "Canon"
	v.Metadata[model.MetaModel] = "EOS 5D"
	return v
}

func bareView(id uint32, path string) *model.View {
	v := model.NewView(id, path)
	v.Width = 4000
	v.Height = 3000
	return v
}

func buildIntrinsic(t *testing.T, v *model.View, serial string) camera.Intrinsic {
	t.Helper()
	opts := camera.DefaultBuildOptions()
	opts.FocalLengthPx = 2400
	in := camera.FromView(v, opts)
	if serial != "" {
		in.SetSerialNumber(serial)
	}
	return in
}

func TestParseMode(t *testing.T) {
	for flag, mode := range map[int]Mode{0: PerView, 1: ByMetadata, 2: ByMetadataElseFolder} {
		m, err := ParseMode(flag)
		require.NoError(t, err)
		assert.Equal(t, mode, m)
	}

	_, err := ParseMode(3)
	assert.Error(t, err)
}

func TestSerialOverride(t *testing.T) {
	t.Run("no override when metadata is present", func(t *testing.T) {
		v := metadataView(1, "/shoot/a/img.jpg")
		assert.Empty(t, SerialOverride(v, ByMetadataElseFolder))
	})

	t.Run("folder override for metadata-less views in default mode", func(t *testing.T) {
		v := bareView(1, "/shoot/a/frame_0001.jpg")
		assert.Equal(t, "/shoot/a", SerialOverride(v, ByMetadataElseFolder))
	})

	t.Run("no folder override in metadata-only mode", func(t *testing.T) {
		v := bareView(1, "/shoot/a/frame_0001.jpg")
		assert.Empty(t, SerialOverride(v, ByMetadata))
	})

	t.Run("rig position wins over folder", func(t *testing.T) {
		v := bareView(1, "/shoot/a/frame_0001.jpg")
		v.RigID = 7
		v.SubPoseID = 2
		assert.Equal(t, "no_metadata_rig_7_2", SerialOverride(v, ByMetadataElseFolder))
	})

	t.Run("different rig cameras in one folder never share", func(t *testing.T) {
		left := bareView(1, "/shoot/a/left.jpg")
		left.RigID, left.SubPoseID = 7, 0
		right := bareView(2, "/shoot/a/right.jpg")
		right.RigID, right.SubPoseID = 7, 1
		assert.NotEqual(t, SerialOverride(left, ByMetadataElseFolder), SerialOverride(right, ByMetadataElseFolder))
	})
}

func TestAssignGroupID(t *testing.T) {
	t.Run("per-view mode always generates fresh ids", func(t *testing.T) {
		a := metadataView(1, "/shoot/a.jpg")
		b := metadataView(2, "/shoot/b.jpg")
		inA := buildIntrinsic(t, a, "")
		inB := buildIntrinsic(t, b, "")
		require.Equal(t, camera.Hash(inA), camera.Hash(inB), "identical parameters")

		idA := AssignGroupID(a, inA, model.UndefinedGroup, PerView)
		idB := AssignGroupID(b, inB, model.UndefinedGroup, PerView)
		assert.NotEqual(t, idA, idB)
	})

	t.Run("identical metadata parameters share a group", func(t *testing.T) {
		a := metadataView(1, "/shoot/a.jpg")
		b := metadataView(2, "/shoot/b.jpg")
		idA := AssignGroupID(a, buildIntrinsic(t, a, ""), model.UndefinedGroup, ByMetadataElseFolder)
		idB := AssignGroupID(b, buildIntrinsic(t, b, ""), model.UndefinedGroup, ByMetadataElseFolder)
		assert.Equal(t, idA, idB)
	})

	t.Run("pre-existing id is honored", func(t *testing.T) {
		v := metadataView(1, "/shoot/a.jpg")
		forced := model.GroupID(42)
		assert.Equal(t, forced, AssignGroupID(v, buildIntrinsic(t, v, ""), forced, ByMetadataElseFolder))
	})

	t.Run("metadata-less views stay ungrouped in metadata-only mode", func(t *testing.T) {
		a := bareView(1, "/shoot/a.jpg")
		b := bareView(2, "/shoot/b.jpg")
		idA := AssignGroupID(a, buildIntrinsic(t, a, ""), model.UndefinedGroup, ByMetadata)
		idB := AssignGroupID(b, buildIntrinsic(t, b, ""), model.UndefinedGroup, ByMetadata)
		assert.NotEqual(t, idA, idB)
	})

	t.Run("metadata-less rig views group by rig position", func(t *testing.T) {
		a := bareView(1, "/shoot/left_0001.jpg")
		a.RigID, a.SubPoseID = 3, 0
		b := bareView(2, "/shoot/left_0002.jpg")
		b.RigID, b.SubPoseID = 3, 0

		inA := buildIntrinsic(t, a, SerialOverride(a, ByMetadata))
		inB := buildIntrinsic(t, b, SerialOverride(b, ByMetadata))
		idA := AssignGroupID(a, inA, model.UndefinedGroup, ByMetadata)
		idB := AssignGroupID(b, inB, model.UndefinedGroup, ByMetadata)
		assert.Equal(t, idA, idB)
	})

	t.Run("never returns the unassigned sentinel", func(t *testing.T) {
		v := bareView(1, "/shoot/a.jpg")
		for _, mode := range []Mode{PerView, ByMetadata, ByMetadataElseFolder} {
			id := AssignGroupID(v, buildIntrinsic(t, v, ""), model.UndefinedGroup, mode)
			assert.NotEqual(t, model.UndefinedGroup, id)
		}
	})
}

func TestUniqueID(t *testing.T) {
	seen := make(map[model.GroupID]bool)
	for i := 0; i < 1000; i++ {
		id := UniqueID()
		assert.NotEqual(t, model.UndefinedGroup, id)
		assert.False(t, seen[id], "duplicate unique id")
		seen[id] = true
	}
}
