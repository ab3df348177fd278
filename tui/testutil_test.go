package tui

import "github.com/pb33f/harhar"

func paramPair(name, value string) harhar.PostNameValuePair {
	return harhar.PostNameValuePair{Name: name, Value: value}
}
