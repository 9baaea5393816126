//go:build !noasm && amd64

package mat

import "github.com/klauspost/cpuid/v2"

func init() {
	// Wider vector units reward bigger tiles.
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		MatMul = matMulBlocked
		matMulBlock = 64
	case cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3):
		MatMul = matMulBlocked
		matMulBlock = 32
	default:
		MatMul = matMulNaive
		matMulBlock = 1
	}
}
