package matte

import "errors"

var (
	// ErrInvalidDimensions 缓冲区长度不等于 width*height*4
	ErrInvalidDimensions = errors.New("matte: invalid dimensions")
	// ErrEmptyInput 宽或高为 0
	ErrEmptyInput = errors.New("matte: empty input")
)
