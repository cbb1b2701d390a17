/*
NAME
  stereo.go

DESCRIPTION
  stereo.go applies mid/side stereo decorrelation to a decoded coefficient
  pair, per spec §4.4 step f.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wma

// applyMidSide decorrelates a block's coefficient pair in place:
// L' = L + R, R' = L - R. Applying it twice to any pair yields the
// original pair scaled by 2 (§8's M/S invertibility property), since
// (L+R)+(L-R) = 2L and (L+R)-(L-R) = 2R.
func applyMidSide(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		l, r := left[i], right[i]
		left[i] = l + r
		right[i] = l - r
	}
}
