// Package primitive builds the parametric solids parts are made of. Every
// primitive has the center of its base footprint at the origin with "up"
// along +Z. Additive features span z ∈ [-Overlap, h] so they fuse with the
// face they stand on; cavities span z ∈ [-depth, Overlap] so they open
// cleanly through the face they are cut into.
package primitive

// Dims holds every dimension of the post system in millimetres. It is a
// value type and is never modified after construction.
type Dims struct {
	// Post.
	PostRadius    float64
	FlatHeight    float64
	SignSpacing   float64
	FlatDepth     float64
	SegmentHeight float64

	// Base.
	BaseRadius  float64
	BaseHeight  float64
	BaseChamfer float64

	// Binary id pins.
	IDPinRadius  float64
	IDPinLength  float64
	IDPinSpacing float64
	PinClearance float64

	// Single center or index pin.
	IndexPinRadius float64
	IndexPinLength float64

	MagnetDiameter  float64
	MagnetThickness float64
	MagnetClearance float64

	PegRadius    float64
	PegHeight    float64
	PegKeyWidth  float64
	PegKeyDepth  float64
	PegClearance float64
	// PegLeadIn is the 45° chamfer around the mouth of the socket.
	PegLeadIn float64

	JoinPinRadii  [2]float64
	JoinPinLength float64

	TopperHeight  float64
	TopperChamfer float64

	// Signs.
	SignThickness       float64
	SignClearance       float64
	TextHeight          float64
	MaxSignLength       float64
	MinSignLength       float64
	MaxFontSize         float64
	MinFontSize         float64
	MinDistanceFontSize float64

	// Base decorations.
	BaseFontSize      float64
	BaseTextHeight    float64
	EngravingFontSize float64
	EngravingDepth    float64

	// Fused post of the two-part layout.
	TwoPartPostHeight float64

	// Overlap is how far features reach into the solid they join.
	Overlap float64
}

// DefaultDims returns the dimensions of the standard post.
func DefaultDims() Dims {
	const (
		R          = 10.0
		flatHeight = 28.0
		spacing    = 8.0
	)
	return Dims{
		PostRadius:    R,
		FlatHeight:    flatHeight,
		SignSpacing:   spacing,
		FlatDepth:     3,
		SegmentHeight: flatHeight + spacing,

		BaseRadius:  50,
		BaseHeight:  10,
		BaseChamfer: 2,

		IDPinRadius:  0.7,
		IDPinLength:  1.5,
		IDPinSpacing: 3,
		PinClearance: 0.2,

		IndexPinRadius: 1,
		IndexPinLength: 2,

		MagnetDiameter:  6,
		MagnetThickness: 2,
		MagnetClearance: 0.2,

		PegRadius:    0.5 * R,
		PegHeight:    3.5,
		PegKeyWidth:  0.3 * R,
		PegKeyDepth:  0.1 * R,
		PegClearance: 0.1,
		PegLeadIn:    0.8,

		JoinPinRadii:  [2]float64{1.2, 1.6},
		JoinPinLength: 4,

		TopperHeight:  8,
		TopperChamfer: 2,

		SignThickness:       3,
		SignClearance:       0.5,
		TextHeight:          1,
		MaxSignLength:       200,
		MinSignLength:       60,
		MaxFontSize:         20,
		MinFontSize:         12,
		MinDistanceFontSize: 5,

		BaseFontSize:      4.5,
		BaseTextHeight:    0.5,
		EngravingFontSize: 6,
		EngravingDepth:    0.6,

		TwoPartPostHeight: 180,

		Overlap: 0.1,
	}
}

// SignHeight is the height of a sign plate, which fits its flat with
// clearance above and below.
func (d Dims) SignHeight() float64 {
	return d.FlatHeight - 2*d.SignClearance
}

// FlatOffset is the distance from the post axis to the face of a flat.
func (d Dims) FlatOffset() float64 {
	return d.PostRadius - d.FlatDepth
}
