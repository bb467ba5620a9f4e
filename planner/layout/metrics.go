package layout

// Metrics are the pixel constants of the board at scale 1.
type Metrics struct {
	Scale float32

	HeaderH   float32
	TabsH     float32
	DayTitleH float32
	BlockH    float32
	Gap       float32
	SidePad   float32
	AddBtnH   float32
	BtnH      float32

	ThemeBtnW   float32
	AddWeekBtnW float32
	MaxTabW     float32

	HandleW   float32
	Thumb     float32
	ImgBtnW   float32
	ImgBtnH   float32
	SetBox    float32
	SetPitch  float32
	ActionW   float32 // edit, copy and delete buttons
	ActionH   float32
	ProgressW float32
	ProgressH float32
}

func Default() Metrics {
	return Metrics{
		Scale: 1,

		HeaderH:   72,
		TabsH:     60,
		DayTitleH: 48,
		BlockH:    110,
		Gap:       10,
		SidePad:   14,
		AddBtnH:   64,
		BtnH:      54,

		ThemeBtnW:   180,
		AddWeekBtnW: 140,
		MaxTabW:     220,

		HandleW:   36,
		Thumb:     80,
		ImgBtnW:   140,
		ImgBtnH:   40,
		SetBox:    26,
		SetPitch:  36,
		ActionW:   60,
		ActionH:   40,
		ProgressW: 140,
		ProgressH: 12,
	}
}

// Scaled multiplies every constant by s, for high-density framebuffers.
func (m Metrics) Scaled(s float32) Metrics {
	if s <= 0 {
		s = 1
	}
	fields := []*float32{
		&m.HeaderH, &m.TabsH, &m.DayTitleH, &m.BlockH, &m.Gap, &m.SidePad, &m.AddBtnH, &m.BtnH,
		&m.ThemeBtnW, &m.AddWeekBtnW, &m.MaxTabW,
		&m.HandleW, &m.Thumb, &m.ImgBtnW, &m.ImgBtnH, &m.SetBox, &m.SetPitch,
		&m.ActionW, &m.ActionH, &m.ProgressW, &m.ProgressH,
	}
	for _, f := range fields {
		*f *= s
	}
	m.Scale *= s
	return m
}

// Px scales a minor spacing constant.
func (m Metrics) Px(v float32) float32 { return v * m.Scale }

// BlockPitch is the vertical distance between consecutive block tops.
func (m Metrics) BlockPitch() float32 { return m.BlockH + m.Gap }

// SectionHeight is the height of one day section holding n blocks.
func (m Metrics) SectionHeight(n int) float32 {
	return m.DayTitleH + float32(n)*m.BlockPitch() + m.AddBtnH + 2*m.Gap
}
