package executor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/models"
)

var _ = Describe("ApplyAntiJoins", func() {
	// Given two outer solutions sharing the inner pattern's variable, and
	// an execInner that (like the real inner-executor) ignores outer and
	// always returns every globally matching inner row
	// When filtered with not-exists
	// Then only the outer solution whose own binding has no matching
	// inner row survives — proving the per-outer filtering happens via
	// compatibility, not via execInner narrowing the scan itself
	It("keeps outer solutions with zero compatible inner rows for not-exists", func() {
		outers := []models.Solution{
			{"p": models.NewIRI("http://ex/1")},
			{"p": models.NewIRI("http://ex/2")},
		}
		spec := models.AntiJoinSpec{Kind: models.AntiJoinNotExists}

		execInner := func(outer models.Solution, patterns []models.Pattern) ([]models.Solution, error) {
			return []models.Solution{{"p": models.NewIRI("http://ex/1")}}, nil
		}

		kept, err := executor.ApplyAntiJoins(outers, []models.AntiJoinSpec{spec}, execInner)
		Expect(err).NotTo(HaveOccurred())
		Expect(kept).To(HaveLen(1))
		Expect(kept[0]["p"].Value).To(Equal("http://ex/2"))
	})

	// Given an outer solution whose bound variable isn't mentioned by the
	// inner pattern at all (no shared variable), and an inner row that
	// matches whatever the outer binding is
	// When filtered with exists
	// Then the outer solution is kept, since an inner row sharing no
	// variable is compatible with every outer solution — mirrors SPARQL's
	// per-outer EXISTS scope
	It("keeps an outer solution sharing no variable with an existing inner row for exists", func() {
		outers := []models.Solution{
			{"p": models.NewIRI("http://ex/1")},
		}
		spec := models.AntiJoinSpec{Kind: models.AntiJoinExists}

		execInner := func(outer models.Solution, patterns []models.Pattern) ([]models.Solution, error) {
			return []models.Solution{{"q": models.NewIRI("http://ex/unrelated")}}, nil
		}

		kept, err := executor.ApplyAntiJoins(outers, []models.AntiJoinSpec{spec}, execInner)
		Expect(err).NotTo(HaveOccurred())
		Expect(kept).To(HaveLen(1))
	})

	// Given an outer solution whose inner evaluation shares a variable and
	// agrees on its binding
	// When filtered with minus
	// Then the outer solution is dropped
	It("drops outer solutions with a compatible inner row for minus", func() {
		outers := []models.Solution{
			{"p": models.NewIRI("http://ex/1"), "name": models.NewLiteral("Acme", "")},
		}
		spec := models.AntiJoinSpec{Kind: models.AntiJoinMinus}

		execInner := func(outer models.Solution, patterns []models.Pattern) ([]models.Solution, error) {
			return []models.Solution{{"name": models.NewLiteral("Acme", "")}}, nil
		}

		kept, err := executor.ApplyAntiJoins(outers, []models.AntiJoinSpec{spec}, execInner)
		Expect(err).NotTo(HaveOccurred())
		Expect(kept).To(BeEmpty())
	})
})
