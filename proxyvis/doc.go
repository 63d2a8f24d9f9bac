// Package proxyvis builds combined day/night "proxy visible" imagery from
// geostationary satellite channels.
//
// At night no true visible reflectance exists, so a proxy reflectance field
// is estimated from infrared brightness temperatures by one of four published
// regression algorithms (Chirokova et al. 2023) and normalized into [0, 1].
// During the day the visible channel itself is used, divided by the cosine of
// the solar zenith angle so brightness stays flat up to the terminator. The
// compositor blends the two fields pixel-wise with a day/night mask derived
// from the solar zenith angle at the scan midpoint, producing a grayscale
// image with no seam across the terminator.
//
// # Resolutions
//
// The nighttime product is computed on the IR-native grid (about 2 km for
// GOES/Himawari full disks) and the daytime product on the visible-native
// grid (about 0.5 km). Either or both resolutions can be requested; the
// missing half is supplied by nearest-neighbor regridding (package regrid).
//
// # Normalization bounds
//
// The raw regression field is rescaled into [0, 1] either with per-satellite
// saved bounds or with the minimum and maximum of the current field. Dynamic
// bounds are only meaningful for full-disk data: a sub-sector's min/max would
// bias the normalization, so sub-sector processing must use saved bounds.
//
// # Ownership of inputs
//
// Two operations deliberately modify caller-supplied fields in place: the
// normalizer clamps negative raw regression values, and the daytime
// adjustment clamps the visible channel to its valid range. Callers who need
// the originals afterwards should pass copies (mat.DenseCopyOf).
package proxyvis
