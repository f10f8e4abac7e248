package main

import "payroll/internal/app/server"

func main() {
	server.Run()
}
