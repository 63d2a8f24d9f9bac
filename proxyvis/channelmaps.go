package proxyvis

// Channel-to-argument maps for the supported instruments. They translate the
// instrument's native channel names (as produced by the reader) into the
// canonical regression argument names c02/c07/c11/c13/c15. One map per
// instrument per algorithm family, plus one naming the visible channel.
// Readers with different channel naming need their own maps. These maps are
// read-only after initialization.
var (
	// ABI: GOES-16/17/18.
	ABIMain   = map[string]string{"C07": "c07", "C11": "c11", "C13": "c13", "C15": "c15"}
	ABISimple = map[string]string{"C07": "c07"}
	ABIVis    = map[string]string{"C02": "c02"}

	// AHI: Himawari-8/9.
	AHIMain   = map[string]string{"B07": "c07", "B11": "c11", "B13": "c13", "B15": "c15"}
	AHISimple = map[string]string{"B07": "c07"}
	AHIVis    = map[string]string{"B03": "c02"}

	// SEVIRI: Meteosat second generation.
	SEVIRIMain = map[string]string{
		"IR_039": "c07",
		"IR_087": "c11",
		"IR_108": "c13",
		"IR_120": "c15",
	}
	SEVIRISimple = map[string]string{"IR_039": "c07"}
	SEVIRIVis    = map[string]string{"VIS006": "c02"}
)
