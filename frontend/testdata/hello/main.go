package main

func greet(name string) string {
	return "hello, " + name
}

func main() {
	msg := greet("gosc")
	_ = msg
}
