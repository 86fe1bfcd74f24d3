package cli

type MessageCmd struct {
	Add    MessageAddCmd    `cmd:"" help:"Add a motivational message to a habit."`
	Edit   MessageEditCmd   `cmd:"" help:"Change a message's text."`
	Delete MessageDeleteCmd `cmd:"" help:"Delete a message."`
	List   MessageListCmd   `cmd:"" help:"List a habit's messages."`
	Next   MessageNextCmd   `cmd:"" help:"Advance to and print the next message."`
}

type MessageAddCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Text  string `arg:"" help:"Message text."`
}

func (c *MessageAddCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}
	m, err := store.AddMessage(h.ID, c.Text)
	if err != nil {
		return err
	}
	ctx.Printf("Added message %d to %q\n", m.ID, h.Name)
	return nil
}

type MessageEditCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	ID    int64  `arg:"" help:"Message id."`
	Text  string `arg:"" help:"New text."`
}

func (c *MessageEditCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}
	if err := store.EditMessage(h.ID, c.ID, c.Text); err != nil {
		return err
	}
	ctx.Printf("Updated message %d\n", c.ID)
	return nil
}

type MessageDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	ID    int64  `arg:"" help:"Message id."`
}

func (c *MessageDeleteCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}
	if err := store.DeleteMessage(h.ID, c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted message %d\n", c.ID)
	return nil
}

type MessageListCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *MessageListCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}
	if len(h.MotivationalMessages) == 0 {
		ctx.Printf("%q has no messages.\n", h.Name)
		return nil
	}

	current, _ := store.CurrentMessage(h.ID)
	for _, m := range h.MotivationalMessages {
		marker := " "
		if m.ID == current.ID {
			marker = "*"
		}
		ctx.Printf("%s %d  %s\n", marker, m.ID, m.Text)
	}
	return nil
}

type MessageNextCmd struct {
	Habit  string `arg:"" help:"Habit id or name."`
	Random bool   `help:"Print a random message without changing the current one."`
}

func (c *MessageNextCmd) Run(ctx *Context) error {
	store, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(store, c.Habit)
	if err != nil {
		return err
	}

	if c.Random {
		if m, ok := store.RandomMessage(h.ID); ok {
			ctx.Println(m.Text)
			return nil
		}
		ctx.Printf("%q has no messages.\n", h.Name)
		return nil
	}

	m, ok, err := store.ShowNextMessage(h.ID)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Printf("%q has no messages.\n", h.Name)
		return nil
	}
	ctx.Println(m.Text)
	return nil
}
