// Package plot holds the element tree behind an AvoPlot session: a session
// owns figures, figures own subplots and subplots own data series.
//
// Elements are small structs that share identity and naming through an
// embedded node. Behaviour is expressed as capability interfaces
// ([Nameable], [Plottable], [ControlPanelHost]) rather than a type
// hierarchy. The [Tree] is the only owner of elements; views refer to them
// by [ID] and learn about changes from typed events on a [Bus].
//
// # Usage
//
//	tree := plot.NewTree("session")
//	unsubscribe := tree.Bus().Subscribe(func(e plot.Event) {
//		if added, ok := e.(plot.Added); ok {
//			fmt.Println("added", added.Name)
//		}
//	})
//	defer unsubscribe()
//
//	fig, _ := tree.NewFigure("Figure 1")
//	sub, _ := tree.AddSubplot(fig.ID(), "Subplot", plot.SubplotXY)
//	series, _ := plot.NewXYSeries("data", x, y, plot.SubplotXY)
//	_ = tree.AddSeries(sub.ID(), series)
package plot
