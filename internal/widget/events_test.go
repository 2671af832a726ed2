package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_Drag(t *testing.T) {
	t.Run("enter and over activate", func(t *testing.T) {
		w := New()
		eff := w.Dispatch(DragEnter{})
		assert.True(t, eff.PreventDefault)
		assert.True(t, eff.Rerender)
		assert.True(t, w.View().DragActive)

		eff = w.Dispatch(DragOver{})
		assert.True(t, eff.PreventDefault)
		assert.False(t, eff.Rerender, "already active")
	})

	t.Run("leave through a nested control keeps active", func(t *testing.T) {
		w := New()
		w.Dispatch(DragEnter{})
		w.Dispatch(DragLeave{Target: TargetNested})
		assert.True(t, w.View().DragActive)

		w.Dispatch(DragLeave{Target: TargetZone})
		assert.False(t, w.View().DragActive)
	})

	tests := []struct {
		name     string
		files    []File
		wantFile string
		wantStep Step
	}{
		{name: "empty drop", files: nil, wantStep: StepEmpty},
		{name: "single file", files: []File{file("a.csv")}, wantFile: "a.csv", wantStep: StepFileStaged},
		{name: "only the first of many", files: []File{file("a.csv"), file("b.csv"), file("c.csv")}, wantFile: "a.csv", wantStep: StepFileStaged},
	}

	for _, tt := range tests {
		t.Run("drop "+tt.name, func(t *testing.T) {
			w := New()
			w.Dispatch(DragEnter{})

			eff := w.Dispatch(Drop{Files: tt.files})

			assert.True(t, eff.PreventDefault)
			assert.False(t, w.View().DragActive, "drop always ends the drag")
			assert.Equal(t, tt.wantStep, w.Step())
			staged, ok := w.Staged()
			assert.Equal(t, tt.wantFile != "", ok)
			assert.Equal(t, tt.wantFile, staged.Name)
		})
	}

	t.Run("empty drop keeps a staged file", func(t *testing.T) {
		w := New()
		w.SelectFile(file("keep.csv"))
		w.AddTag("t")

		w.Dispatch(Drop{})

		staged, ok := w.Staged()
		require.True(t, ok)
		assert.Equal(t, "keep.csv", staged.Name)
		assert.Equal(t, []string{"t"}, w.Tags())
	})
}

func TestDispatch_Clicks(t *testing.T) {
	t.Run("zone click opens picker", func(t *testing.T) {
		eff := New().Dispatch(ZoneClick{Target: TargetZone})
		assert.True(t, eff.OpenPicker)
	})

	t.Run("nested click does not", func(t *testing.T) {
		eff := New().Dispatch(ZoneClick{Target: TargetNested})
		assert.False(t, eff.OpenPicker)
	})

	t.Run("remove stops propagation", func(t *testing.T) {
		w := New()
		w.Dispatch(PickerChange{Files: []File{file("a.csv")}})
		require.Equal(t, StepFileStaged, w.Step())

		eff := w.Dispatch(RemoveClick{})

		assert.True(t, eff.StopPropagation)
		assert.True(t, eff.ResetFileInput)
		assert.False(t, eff.OpenPicker)
		assert.Equal(t, StepEmpty, w.Step())
	})

	t.Run("empty picker change is ignored", func(t *testing.T) {
		w := New()
		eff := w.Dispatch(PickerChange{})
		assert.Equal(t, Effect{}, eff)
		assert.Equal(t, StepEmpty, w.Step())
	})
}

func TestDispatch_Tags(t *testing.T) {
	t.Run("enter adds and prevents default", func(t *testing.T) {
		w := New()
		eff := w.Dispatch(TagKey{Key: "enter", Text: " soil "})

		assert.True(t, eff.PreventDefault)
		assert.True(t, eff.ClearTagInput)
		assert.Equal(t, []string{"soil"}, w.Tags())
	})

	t.Run("enter on blank text still prevents default", func(t *testing.T) {
		w := New()
		eff := w.Dispatch(TagKey{Key: "enter", Text: "  "})

		assert.True(t, eff.PreventDefault)
		assert.False(t, eff.ClearTagInput)
		assert.Empty(t, w.Tags())
	})

	t.Run("other keys are passed through", func(t *testing.T) {
		w := New()
		eff := w.Dispatch(TagKey{Key: "a", Text: "soil"})

		assert.Equal(t, Effect{}, eff)
		assert.Empty(t, w.Tags())
	})

	t.Run("add button ignores duplicates", func(t *testing.T) {
		w := New()
		w.Dispatch(AddTagClick{Text: "soil"})
		eff := w.Dispatch(AddTagClick{Text: "soil"})

		assert.False(t, eff.ClearTagInput)
		assert.Equal(t, []string{"soil"}, w.Tags())
	})
}
