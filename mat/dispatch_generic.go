//go:build noasm || !amd64

package mat

func init() {
	MatMul = matMulNaive
	matMulBlock = 1
}
