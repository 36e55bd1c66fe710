package sfmdata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camtools/camerainit/internal/camera"
	"github.com/camtools/camerainit/internal/model"
)

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	ds := NewDataset()

	v1 := model.NewView(1, "/shoot/a/img_0001.jpg")
	v1.Width, v1.Height = 4000, 3000
	v1.Metadata[model.MetaMake] = "Canon"
	v1.Metadata[model.MetaModel] = "EOS 5D"
	v1.IntrinsicID = 42
	ds.AddView(v1)

	v2 := model.NewView(2, "/shoot/a/img_0002.jpg")
	v2.Width, v2.Height = 1920, 1080
	ds.AddView(v2)

	pinhole, err := camera.New(camera.FamilyPinhole, 4000, 3000, 2400, 2000, 1500, nil)
	require.NoError(t, err)
	pinhole.SetSerialNumber("body-001")
	ds.Intrinsics[42] = pinhole

	brown, err := camera.New(camera.FamilyBrown, 1920, 1080, 1100, 960, 540, []float64{0.1, -0.05, 0.01, 0.001, -0.002})
	require.NoError(t, err)
	ds.Intrinsics[7] = brown

	ds.Poses["pose_1"] = json.RawMessage(`{"rotation":[1,0,0,0,1,0,0,0,1]}`)
	return ds
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameraInit.sfm")
	require.NoError(t, Save(sampleDataset(t), path, AllFields))

	ds, err := Load(path, AllFields)
	require.NoError(t, err)

	require.Len(t, ds.Views, 2)
	v1 := ds.Views[1]
	assert.Equal(t, "/shoot/a/img_0001.jpg", v1.Path)
	assert.Equal(t, 4000, v1.Width)
	assert.Equal(t, "Canon", v1.Metadata[model.MetaMake])
	assert.Equal(t, model.GroupID(42), v1.IntrinsicID)
	assert.False(t, ds.Views[2].Assigned())
	assert.NotNil(t, ds.Views[2].Metadata)

	require.Len(t, ds.Intrinsics, 2)
	pinhole, ok := ds.Intrinsic(42)
	require.True(t, ok)
	assert.Equal(t, camera.FamilyPinhole, pinhole.Family())
	assert.Equal(t, 2400.0, pinhole.FocalLengthPx())
	assert.Equal(t, "body-001", pinhole.SerialNumber())

	brown, ok := ds.Intrinsic(7)
	require.True(t, ok)
	assert.Equal(t, camera.FamilyBrown, brown.Family())
	assert.Equal(t, []float64{0.1, -0.05, 0.01, 0.001, -0.002}, brown.DistortionParams())

	require.Contains(t, ds.Poses, "pose_1")
	assert.JSONEq(t, `{"rotation":[1,0,0,0,1,0,0,0,1]}`, string(ds.Poses["pose_1"]))
}

func TestLoad_FieldSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameraInit.sfm")
	require.NoError(t, Save(sampleDataset(t), path, AllFields))

	t.Run("views only", func(t *testing.T) {
		ds, err := Load(path, FieldViews)
		require.NoError(t, err)
		assert.Len(t, ds.Views, 2)
		assert.Empty(t, ds.Intrinsics)
		assert.Empty(t, ds.Poses)
	})

	t.Run("intrinsics only", func(t *testing.T) {
		ds, err := Load(path, FieldIntrinsics)
		require.NoError(t, err)
		assert.Empty(t, ds.Views)
		assert.Len(t, ds.Intrinsics, 2)
	})
}

func TestSave_FieldSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "views_only.sfm")
	require.NoError(t, Save(sampleDataset(t), path, FieldViews))

	ds, err := Load(path, AllFields)
	require.NoError(t, err)
	assert.Len(t, ds.Views, 2)
	assert.Empty(t, ds.Intrinsics)
	assert.Empty(t, ds.Poses)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.sfm"), AllFields)
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.sfm")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
		_, err := Load(path, AllFields)
		assert.Error(t, err)
	})

	t.Run("unknown camera model type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "badmodel.sfm")
		doc := `{"version":"1.0","intrinsics":[{"intrinsicId":1,"type":"hypercube","width":10,"height":10,"pxFocalLength":5}]}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
		_, err := Load(path, AllFields)
		assert.Error(t, err)
	})
}

func TestDataset_MergeIntrinsic(t *testing.T) {
	ds := NewDataset()
	first, err := camera.New(camera.FamilyPinhole, 100, 100, 50, 50, 50, nil)
	require.NoError(t, err)
	second, err := camera.New(camera.FamilyPinhole, 100, 100, 60, 50, 50, nil)
	require.NoError(t, err)

	ds.MergeIntrinsic(5, first)
	ds.MergeIntrinsic(5, second)

	in, ok := ds.Intrinsic(5)
	require.True(t, ok)
	assert.Same(t, first, in)
}

func TestDataset_ViewListOrder(t *testing.T) {
	ds := NewDataset()
	for _, id := range []uint32{9, 3, 7, 1} {
		ds.AddView(model.NewView(id, "/x"))
	}

	var got []uint32
	for _, v := range ds.ViewList() {
		got = append(got, v.ID)
	}
	assert.Equal(t, []uint32{1, 3, 7, 9}, got)
}
