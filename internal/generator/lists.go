package generator

// Lists are the built-in values the generator samples from when no seed
// applies.
type Lists struct {
	Styles   []string
	Settings []string
	Objects  []string
	Hooks    []string
	Formats  []string
	Camera   []string
	Audio    []string
	Captions []string
}

func DefaultLists() Lists {
	return Lists{
		Styles: []string{
			"deadpan physical comedy", "wholesome cringe", "surreal slice-of-life",
			"awkward domestic humor", "silent physical gag", "mock nature documentary",
		},
		Settings: []string{
			"glass-walled boardroom on a high floor", "Wall Street lobby turnstiles",
			"Midtown elevator", "open-plan office with skyline view",
			"coffee cart on a Manhattan sidewalk", "bodega aisle", "subway car",
			"yellow taxi back seat", "revolving door in a corporate lobby",
		},
		Objects: []string{
			"banana", "sticky note", "umbrella", "rolling chair", "water bottle",
			"paper airplane", "backpack", "mop", "cardboard box",
		},
		Hooks: []string{
			"unexpected echo", "polite escalation", "mistimed wave", "synchronized oops",
			"fake-out ending", "overly literal sign", "slow-burn stare", "prop betrayal",
		},
		Formats: []string{
			"sticky note trick", "chair swap", "fake button", "phantom typing",
			"reserved seat", "auto-approve", "door close", "snack audit",
		},
		Camera: []string{
			"wide establishing, then medium, then close; quick cuts",
			"locked-off wide shot; subtle push-in on punchline",
			"handheld, mild jitter; whip-pan to reaction",
		},
		Audio: []string{
			"room tone; clothes rustle; one soft comedic sound at the end",
			"no dialogue; single chime on punchline",
			"ambient office murmur; tiny paw sounds; elevator ding",
		},
		Captions: []string{"Noted.", "Understood.", "Meeting adjourned.", "Carry on.", "Proceed."},
	}
}
