package main

import "github.com/quochao170402/ecommerce-aws/webshop-service/cmd/server/commands"

func main() {
	commands.Execute()
}
