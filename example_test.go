package colloquy_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/dsl"
)

// ExampleNew_memory runs a conversation built in memory, choosing the first
// option at every stop.
func ExampleNew_memory() {
	b := dsl.New("bakery", "Bakery")
	b.Add("start", "start").Next("ask")
	b.Add("ask", "choice").Set("speaker", "Baker").Set("text", "Fresh bread?").
		Option("buy", "Buy a loaf", "pay").
		Option("leave", "Leave", "")
	b.Add("pay", "spend_resource").Set("resource", "money").Set("amount", 3).
		Go("success", "thanks").
		Go("failure", "broke")
	b.Add("thanks", "message").Set("text", "Thank you!")
	b.Add("broke", "message").Set("text", "Come back with coins.")

	engine, err := colloquy.New("", colloquy.WithLoader(memory.NewLoader(b.MustBuild())))
	if err != nil {
		log.Fatal(err)
	}

	world, err := memory.Seed{Money: 5}.Build()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	exec, err := engine.Start(ctx, "bakery", world.Ports(), nil)
	if err != nil {
		log.Fatal(err)
	}
	for {
		p, ok := exec.Pending()
		if !ok {
			break
		}
		fmt.Println(p.Text)
		if err := engine.Resume(ctx, exec, 0); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println(exec.Status(), world.Resources.Money())

	// Output:
	// Fresh bread?
	// Thank you!
	// idle 2
}
