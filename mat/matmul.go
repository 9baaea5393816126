package mat

// matMulFunc accumulates dst += a*b where a is m x k, b is k x n and all
// three buffers are row-major.
type matMulFunc func(dst, a, b []float64, m, k, n int)

// MatMul points at the kernel picked for this CPU during init (see
// dispatch_amd64.go). Both kernels produce identical results; the blocked
// one only reorders the accumulation to stay inside the cache.
var MatMul matMulFunc

// matMulBlock is the tile width used by the blocked kernel.
var matMulBlock int

func matMulNaive(dst, a, b []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		ai := a[i*k : i*k+k]
		di := dst[i*n : i*n+n]
		for p := 0; p < k; p++ {
			av := ai[p]
			if av == 0 {
				continue
			}
			bp := b[p*n : p*n+n]
			for j := 0; j < n; j++ {
				di[j] += av * bp[j]
			}
		}
	}
}

func matMulBlocked(dst, a, b []float64, m, k, n int) {
	bs := matMulBlock
	if bs <= 0 {
		matMulNaive(dst, a, b, m, k, n)
		return
	}
	for i0 := 0; i0 < m; i0 += bs {
		i1 := i0 + bs
		if i1 > m {
			i1 = m
		}
		for p0 := 0; p0 < k; p0 += bs {
			p1 := p0 + bs
			if p1 > k {
				p1 = k
			}
			for i := i0; i < i1; i++ {
				ai := a[i*k : i*k+k]
				di := dst[i*n : i*n+n]
				for p := p0; p < p1; p++ {
					av := ai[p]
					if av == 0 {
						continue
					}
					bp := b[p*n : p*n+n]
					for j := 0; j < n; j++ {
						di[j] += av * bp[j]
					}
				}
			}
		}
	}
}
