//go:build !amd64

package kernel

func selectPlatform() Kernel {
	return Scalar{}
}
