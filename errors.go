package shadercheck

import "fmt"

// CompileFailure is reported when a shader stage did not compile.
type CompileFailure struct {
	Label string
	Log   string
}

// Error implements the error interface.
func (e *CompileFailure) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Label, e.Log)
}

// Message returns the diagnostic text handed to a Sink.
func (e *CompileFailure) Message() string {
	return "ERROR::SHADER::" + e.Label + "::COMPILATION_FAILED\n" + e.Log
}

// LinkFailure is reported when a shader program did not link.
type LinkFailure struct {
	Log string
}

// Error implements the error interface.
func (e *LinkFailure) Error() string {
	return "shader program link failed: " + e.Log
}

// Message returns the diagnostic text handed to a Sink.
func (e *LinkFailure) Message() string {
	return "ERROR::SHADER::PROGRAM::LINKING_FAILED\n" + e.Log
}
