// SPDX-License-Identifier: MIT

package metric

import "math"

// Value implements Metric by dispatching on k. An unknown Kind scores 0.
//
// Complexity: O(1).
func (k Kind) Value(tp, tn, fp, fn float64) float64 {
	switch k {
	case Sensitivity:
		return ratio(tp, tp+fn)
	case Specificity:
		return ratio(tn, tn+fp)
	case PPV:
		return ratio(tp, tp+fp)
	case NPV:
		return ratio(tn, tn+fn)
	case FDR:
		return ratio(fp, fp+tp)
	case Accuracy:
		return ratio(tp+tn, tp+tn+fp+fn)
	case MCC:
		return mcc(tp, tn, fp, fn)
	case F1Score:
		return ratio(2*tp, 2*tp+fp+fn)
	default:
		return 0
	}
}

// Summarize evaluates every built-in metric on c.
func Summarize(c Counts) Summary {
	var (
		tp = float64(c.TP)
		tn = float64(c.TN)
		fp = float64(c.FP)
		fn = float64(c.FN)
	)

	return Summary{
		Sensitivity: Sensitivity.Value(tp, tn, fp, fn),
		Specificity: Specificity.Value(tp, tn, fp, fn),
		PPV:         PPV.Value(tp, tn, fp, fn),
		NPV:         NPV.Value(tp, tn, fp, fn),
		FDR:         FDR.Value(tp, tn, fp, fn),
		Accuracy:    Accuracy.Value(tp, tn, fp, fn),
		MCC:         MCC.Value(tp, tn, fp, fn),
		F1Score:     F1Score.Value(tp, tn, fp, fn),
	}
}

// ratio divides num by den, returning 0 for a zero denominator or a
// non-finite result.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}

	return finite(num / den)
}

// mcc is the Matthews correlation coefficient. Any empty marginal
// (p, n, p′ or n′) makes the coefficient undefined; it scores 0.
func mcc(tp, tn, fp, fn float64) float64 {
	var (
		p      = tp + fn // condition positive
		n      = fp + tn // condition negative
		pPrime = tp + fp // predicted positive
		nPrime = tn + fn // predicted negative
	)
	if p == 0 || n == 0 || pPrime == 0 || nPrime == 0 {
		return 0
	}

	return finite((tp*tn - fp*fn) / math.Sqrt(p*n*pPrime*nPrime))
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}

	return x
}
