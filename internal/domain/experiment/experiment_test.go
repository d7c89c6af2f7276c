package experiment

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartedExperiment(t *testing.T, weights ...int64) *Experiment {
	t.Helper()
	experiment, err := NewExperiment(uuid.New(), "cart-layout", "Cart Layout Test", "cart")
	require.NoError(t, err)

	for i, w := range weights {
		require.NoError(t, experiment.AddVariant(fmt.Sprintf("variant-%d", i), uuid.New(), decimal.NewFromInt(w)))
	}
	require.NoError(t, experiment.Start())
	return experiment
}

func TestNewExperiment(t *testing.T) {
	t.Run("creates draft experiment", func(t *testing.T) {
		storeID := uuid.New()
		experiment, err := NewExperiment(storeID, "Cart-Layout", "Cart Layout Test", "cart")

		require.NoError(t, err)
		assert.Equal(t, "cart-layout", experiment.Key)
		assert.Equal(t, ExperimentStatusDraft, experiment.Status)
		assert.Equal(t, storeID, experiment.StoreID)
		assert.Empty(t, experiment.Variants)
		assert.Nil(t, experiment.StartedAt)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		_, err := NewExperiment(uuid.New(), "", "Name", "cart")
		assert.Error(t, err)
	})

	t.Run("rejects key with spaces", func(t *testing.T) {
		_, err := NewExperiment(uuid.New(), "cart layout", "Name", "cart")
		assert.Error(t, err)
	})

	t.Run("rejects empty page type", func(t *testing.T) {
		_, err := NewExperiment(uuid.New(), "cart-layout", "Name", "")
		assert.Error(t, err)
	})
}

func TestExperiment_AddVariant(t *testing.T) {
	t.Run("adds variants to draft", func(t *testing.T) {
		experiment, err := NewExperiment(uuid.New(), "test", "Test", "cart")
		require.NoError(t, err)

		versionA := uuid.New()
		require.NoError(t, experiment.AddVariant("control", versionA, decimal.NewFromInt(50)))
		require.NoError(t, experiment.AddVariant("treatment", uuid.New(), decimal.NewFromInt(50)))

		require.Len(t, experiment.Variants, 2)
		assert.Equal(t, versionA, experiment.Variants[0].PageVersionID)
		assert.Equal(t, experiment.ID, experiment.Variants[0].ExperimentID)
		assert.True(t, experiment.TotalWeight().Equal(decimal.NewFromInt(100)))
	})

	t.Run("supports fractional weights", func(t *testing.T) {
		experiment, err := NewExperiment(uuid.New(), "test", "Test", "cart")
		require.NoError(t, err)

		require.NoError(t, experiment.AddVariant("a", uuid.New(), decimal.RequireFromString("33.33")))
		require.NoError(t, experiment.AddVariant("b", uuid.New(), decimal.RequireFromString("66.67")))
		assert.True(t, experiment.TotalWeight().Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects duplicate variant names", func(t *testing.T) {
		experiment, err := NewExperiment(uuid.New(), "test", "Test", "cart")
		require.NoError(t, err)

		require.NoError(t, experiment.AddVariant("control", uuid.New(), decimal.NewFromInt(50)))
		assert.Error(t, experiment.AddVariant("control", uuid.New(), decimal.NewFromInt(50)))
	})

	t.Run("rejects zero weight", func(t *testing.T) {
		experiment, err := NewExperiment(uuid.New(), "test", "Test", "cart")
		require.NoError(t, err)

		assert.Error(t, experiment.AddVariant("control", uuid.New(), decimal.Zero))
	})

	t.Run("rejects variants on running experiment", func(t *testing.T) {
		experiment := newStartedExperiment(t, 50, 50)

		assert.Error(t, experiment.AddVariant("late", uuid.New(), decimal.NewFromInt(10)))
	})
}

func TestExperiment_Lifecycle(t *testing.T) {
	t.Run("start requires two variants", func(t *testing.T) {
		experiment, err := NewExperiment(uuid.New(), "test", "Test", "cart")
		require.NoError(t, err)
		require.NoError(t, experiment.AddVariant("only", uuid.New(), decimal.NewFromInt(100)))

		assert.Error(t, experiment.Start())
	})

	t.Run("start requires weights summing to 100", func(t *testing.T) {
		experiment, err := NewExperiment(uuid.New(), "test", "Test", "cart")
		require.NoError(t, err)
		require.NoError(t, experiment.AddVariant("a", uuid.New(), decimal.NewFromInt(50)))
		require.NoError(t, experiment.AddVariant("b", uuid.New(), decimal.NewFromInt(40)))

		assert.Error(t, experiment.Start())
	})

	t.Run("start sets started at", func(t *testing.T) {
		experiment := newStartedExperiment(t, 50, 50)

		assert.Equal(t, ExperimentStatusRunning, experiment.Status)
		assert.NotNil(t, experiment.StartedAt)
	})

	t.Run("pause and resume", func(t *testing.T) {
		experiment := newStartedExperiment(t, 50, 50)
		startedAt := experiment.StartedAt

		require.NoError(t, experiment.Pause())
		assert.Equal(t, ExperimentStatusPaused, experiment.Status)

		require.NoError(t, experiment.Start())
		assert.Equal(t, ExperimentStatusRunning, experiment.Status)
		assert.Equal(t, startedAt, experiment.StartedAt, "resume keeps the original start time")
	})

	t.Run("complete is terminal", func(t *testing.T) {
		experiment := newStartedExperiment(t, 50, 50)

		require.NoError(t, experiment.Complete())
		assert.Equal(t, ExperimentStatusCompleted, experiment.Status)
		assert.NotNil(t, experiment.CompletedAt)

		assert.Error(t, experiment.Start())
		assert.Error(t, experiment.Pause())
		assert.Error(t, experiment.Complete())
	})

	t.Run("pause requires running", func(t *testing.T) {
		experiment, err := NewExperiment(uuid.New(), "test", "Test", "cart")
		require.NoError(t, err)

		assert.Error(t, experiment.Pause())
	})
}

func TestExperiment_VariantForVisitor(t *testing.T) {
	t.Run("assignment is deterministic", func(t *testing.T) {
		experiment := newStartedExperiment(t, 50, 50)

		first, err := experiment.VariantForVisitor("visitor-123")
		require.NoError(t, err)

		for range 10 {
			again, err := experiment.VariantForVisitor("visitor-123")
			require.NoError(t, err)
			assert.Equal(t, first.Name, again.Name)
		}
	})

	t.Run("distributes visitors roughly by weight", func(t *testing.T) {
		experiment := newStartedExperiment(t, 80, 20)

		counts := map[string]int{}
		total := 5000
		for i := range total {
			variant, err := experiment.VariantForVisitor(fmt.Sprintf("visitor-%d", i))
			require.NoError(t, err)
			counts[variant.Name]++
		}

		heavyShare := float64(counts["variant-0"]) / float64(total)
		assert.InDelta(t, 0.80, heavyShare, 0.05)
	})

	t.Run("rejects assignment when not running", func(t *testing.T) {
		experiment, err := NewExperiment(uuid.New(), "test", "Test", "cart")
		require.NoError(t, err)

		_, err = experiment.VariantForVisitor("visitor-123")
		assert.Error(t, err)
	})

	t.Run("rejects empty visitor id", func(t *testing.T) {
		experiment := newStartedExperiment(t, 50, 50)

		_, err := experiment.VariantForVisitor("")
		assert.Error(t, err)
	})
}

func TestBucketVisitor(t *testing.T) {
	t.Run("stable per pair and independent across experiments", func(t *testing.T) {
		a := bucketVisitor("exp-a", "visitor-1")
		assert.Equal(t, a, bucketVisitor("exp-a", "visitor-1"))
		assert.GreaterOrEqual(t, a, 0)
		assert.Less(t, a, bucketCount)

		different := false
		for i := range 50 {
			visitor := fmt.Sprintf("visitor-%d", i)
			if bucketVisitor("exp-a", visitor) != bucketVisitor("exp-b", visitor) {
				different = true
				break
			}
		}
		assert.True(t, different, "experiments should bucket independently")
	})
}
