package iso

// Mat3 is a column-major 3×3 matrix (GLSL mat3 layout) for 2D affine transforms.
type Mat3 [9]float64

func Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Apply transforms the point (x, y, 1).
func (m Mat3) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[3]*y + m[6], m[1]*x + m[4]*y + m[7]
}

// Float32 converts for uniform upload.
func (m Mat3) Float32() [9]float32 {
	var out [9]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Mul returns a·b, i.e. b is applied first.
func Mul(a, b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i+3*j] = a[i+0]*b[0+3*j] + a[i+3]*b[1+3*j] + a[i+6]*b[2+3*j]
		}
	}
	return out
}

// WorldToScreenMatrix is Project expressed as a matrix.
func (p Projection) WorldToScreenMatrix(cam Camera) Mat3 {
	s := cam.Scale
	return Mat3{
		p.HalfW * s, p.HalfH * s, 0,
		-p.HalfW * s, p.HalfH * s, 0,
		cam.X, cam.Y, 1,
	}
}

// ScreenToWorldMatrix is ScreenToWorld expressed as a matrix.
func (p Projection) ScreenToWorldMatrix(cam Camera) Mat3 {
	ax := 1 / (2 * cam.Scale * p.HalfW)
	ay := 1 / (2 * cam.Scale * p.HalfH)
	return Mat3{
		ax, -ax, 0,
		ay, ay, 0,
		-cam.X*ax - cam.Y*ay, cam.X*ax - cam.Y*ay, 1,
	}
}

// ScreenToClip maps top-left pixel space of a w×h surface to GL clip space.
func ScreenToClip(w, h float64) Mat3 {
	return Mat3{
		2 / w, 0, 0,
		0, -2 / h, 0,
		-1, 1, 1,
	}
}
