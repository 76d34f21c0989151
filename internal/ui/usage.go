package ui

// usageMarkdown is shown in the usage panel.
const usageMarkdown = `## Usage

- Copy & paste your HTML and CSS into the boxes
- Press **UnCSS my styles** (or ` + "`ctrl+s`" + `)
- Wait for magic to happen
- Unused CSS is gone, take the rest and use it!

Press ` + "`ctrl+y`" + ` or the **Copy to clipboard** button to copy the result.

## Advanced usage

For advanced options please consider adding UnCSS to your devstack:
[Gulp](https://github.com/ben-eb/gulp-uncss),
[Grunt](https://github.com/addyosmani/grunt-uncss),
[PostCSS](https://github.com/RyanZim/postcss-uncss).

## What is this good for?

Do you have a static 404 or 500 page, bundled styles for the whole site, and
you need only a couple of rules for these static pages to work? Well, here
you have the tool for that. You're welcome.
`
