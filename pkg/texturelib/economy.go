package texturelib

// Pricing holds the score economy constants and policies.
//
// All rates are per storage unit (see SizeUnits). Costs may come out
// negative when the upload award exceeds the storage and closet terms; a
// negative cost is applied as a credit rather than capped at zero.
type Pricing struct {
	// PublicRate is the per-unit storage rate for public textures.
	PublicRate int64
	// PrivateRate is the per-unit storage rate for private textures,
	// typically higher than PublicRate.
	PrivateRate int64
	// ClosetItemCost is charged for each closet entry, including the
	// uploader's own entry created at upload time.
	ClosetItemCost int64
	// UploadAward is credited back on every upload.
	UploadAward int64
	// TakeBackAward claws the upload award back from the refund when a
	// texture transitions away from public.
	TakeBackAward bool
	// ReturnScoreOnRemoval refunds ClosetItemCost to a collector whose
	// entry is removed by a policy-driven detach. Terminal deletion never
	// refunds.
	ReturnScoreOnRemoval bool
}

// DefaultPricing mirrors the stock library configuration.
func DefaultPricing() Pricing {
	return Pricing{
		PublicRate:           1,
		PrivateRate:          10,
		ClosetItemCost:       10,
		UploadAward:          0,
		TakeBackAward:        true,
		ReturnScoreOnRemoval: true,
	}
}

// RatePerUnit returns the storage rate for the given visibility.
func (p Pricing) RatePerUnit(public bool) int64 {
	if public {
		return p.PublicRate
	}
	return p.PrivateRate
}

// UploadCost quotes the score cost of storing a new texture:
// sizeUnits*rate + the uploader's own closet entry, less the upload award.
func (p Pricing) UploadCost(sizeUnits int64, public bool) int64 {
	return sizeUnits*p.RatePerUnit(public) + p.ClosetItemCost - p.UploadAward
}

// TransitionDelta returns the signed score change applied to the owner when
// the texture's visibility flips from its current state. Going private
// charges the rate difference (and claws back the award under
// TakeBackAward); going public refunds the difference.
func (p Pricing) TransitionDelta(t *Texture) int64 {
	delta := t.SizeUnits * (p.PrivateRate - p.PublicRate)
	if t.Public {
		delta = -delta
		if p.TakeBackAward {
			delta -= p.UploadAward
		}
	}
	return delta
}
